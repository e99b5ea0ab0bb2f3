package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	Port     string
	LogLevel string
	Auction  AuctionConfig
	Accounts AccountsConfig
	SeedDemo bool
}

type AuctionConfig struct {
	DefaultDuration time.Duration
	MaxDuration     time.Duration
}

type AccountsConfig struct {
	DefaultBalance decimal.Decimal
	SessionTTL     time.Duration
	HashCost       int
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults for anything unset. A set but malformed value is an
// error, never a silent default.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	env := &envReader{}
	cfg := &Config{
		Port:     getString("PORT", "8080"),
		LogLevel: getString("LOG_LEVEL", "info"),
		Auction: AuctionConfig{
			DefaultDuration: env.getDuration("DEFAULT_AUCTION_DURATION", 24*time.Hour),
			MaxDuration:     env.getDuration("MAX_AUCTION_DURATION", 30*24*time.Hour),
		},
		Accounts: AccountsConfig{
			DefaultBalance: env.getDecimal("DEFAULT_BALANCE", decimal.NewFromInt(1000)),
			SessionTTL:     env.getDuration("SESSION_TTL", 12*time.Hour),
			HashCost:       env.getInt("BCRYPT_COST", 10),
		},
		SeedDemo: env.getBool("SEED_DEMO_DATA", false),
	}
	if env.err != nil {
		return nil, env.err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the listen address derived from Port
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) validate() error {
	if c.Accounts.DefaultBalance.IsNegative() {
		return fmt.Errorf("config: DEFAULT_BALANCE must not be negative, got %s", c.Accounts.DefaultBalance)
	}
	if c.Auction.DefaultDuration <= 0 {
		return fmt.Errorf("config: DEFAULT_AUCTION_DURATION must be positive, got %s", c.Auction.DefaultDuration)
	}
	if c.Auction.MaxDuration < c.Auction.DefaultDuration {
		return fmt.Errorf("config: MAX_AUCTION_DURATION %s is below DEFAULT_AUCTION_DURATION %s", c.Auction.MaxDuration, c.Auction.DefaultDuration)
	}
	if c.Accounts.HashCost < 4 || c.Accounts.HashCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST must be between 4 and 31, got %d", c.Accounts.HashCost)
	}
	if c.Accounts.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.Accounts.SessionTTL)
	}
	return nil
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// envReader parses typed values and keeps the first parse error
type envReader struct {
	err error
}

func (r *envReader) lookup(key string) (string, bool) {
	val := os.Getenv(key)
	return val, val != "" && r.err == nil
}

func (r *envReader) fail(key, val string, err error) {
	r.err = fmt.Errorf("config: parse %s=%q: %w", key, val, err)
}

func (r *envReader) getInt(key string, fallback int) int {
	val, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		r.fail(key, val, err)
		return fallback
	}
	return parsed
}

func (r *envReader) getBool(key string, fallback bool) bool {
	val, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		r.fail(key, val, err)
		return fallback
	}
	return parsed
}

func (r *envReader) getDuration(key string, fallback time.Duration) time.Duration {
	val, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		r.fail(key, val, err)
		return fallback
	}
	return parsed
}

func (r *envReader) getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	val, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := decimal.NewFromString(val)
	if err != nil {
		r.fail(key, val, err)
		return fallback
	}
	return parsed
}
