package main

import (
	"os"

	accounts "online-auction/internal/accountService"
	bidding "online-auction/internal/biddingService"
	"online-auction/internal/clock"
	"online-auction/internal/config"
	"online-auction/internal/demo"
	"online-auction/internal/ledger"
	"online-auction/internal/repository"
	"online-auction/utils"

	"github.com/shopspring/decimal"
)

// demoBalance is used unless DEFAULT_BALANCE is set, so the bid war can clear
const demoBalance = 2000

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	utils.SetLevel(cfg.LogLevel)
	if _, set := os.LookupEnv("DEFAULT_BALANCE"); !set {
		cfg.Accounts.DefaultBalance = decimal.NewFromInt(demoBalance)
	}

	repo := repository.NewMemoryRepo()
	l := ledger.NewMemoryLedger()
	clk := clock.New()

	acc := accounts.NewAccountService(repo, repository.NewMemorySessionStore(), l, clk, cfg.Accounts)
	lifecycle := bidding.NewAuctionLifecycle(repo, repo, l, clk, cfg.Auction)
	engine := bidding.NewBiddingService(repo, repo, l, clk)

	if err := demo.Run(os.Stdout, acc, lifecycle, engine); err != nil {
		utils.Fatal("demo failed", map[string]any{"error": err.Error()})
	}
}
