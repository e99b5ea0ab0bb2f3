package accounts

import (
	"errors"
	"fmt"
	"strings"

	"online-auction/internal/biddingerrors"
	"online-auction/internal/clock"
	"online-auction/internal/config"
	"online-auction/internal/ledger"
	"online-auction/internal/models"
	"online-auction/internal/repository"
	"online-auction/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// AccountService handles registration, sessions and item listing. It is the
// only writer of the Directory.
type AccountService struct {
	repo     repository.AccountDB
	sessions repository.SessionDB
	ledger   ledger.Ledger
	clock    clock.Clock
	cfg      config.AccountsConfig
}

// NewAccountService creates a new AccountService instance
func NewAccountService(repo repository.AccountDB, sessions repository.SessionDB, l ledger.Ledger, clk clock.Clock, cfg config.AccountsConfig) *AccountService {
	return &AccountService{
		repo:     repo,
		sessions: sessions,
		ledger:   l,
		clock:    clk,
		cfg:      cfg,
	}
}

// RegisterUser creates a user with the configured starting balance
func (s *AccountService) RegisterUser(username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("service: %w - missing username or password", biddingerrors.ErrInvalidUser)
	}
	if !strings.Contains(email, "@") {
		return models.User{}, fmt.Errorf("service: %w - malformed email", biddingerrors.ErrInvalidUser)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.HashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("service: hash password: %w", err)
	}

	user := models.User{
		UserID:       utils.GenerateID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	// the account exists before the user is visible in the directory
	if err := s.ledger.Open(user.UserID, s.cfg.DefaultBalance); err != nil {
		return models.User{}, fmt.Errorf("service: failed to open account for user %s: %w", username, err)
	}
	if err := s.repo.AddUser(user); err != nil {
		if closeErr := s.ledger.Close(user.UserID); closeErr != nil {
			utils.Warn("RegisterUser: failed to close orphaned account", map[string]any{
				"user_id": user.UserID,
				"error":   closeErr.Error(),
			})
		}
		return models.User{}, fmt.Errorf("service: failed to register user %s: %w", username, err)
	}

	user.Balance = s.cfg.DefaultBalance
	return user, nil
}

// Login verifies credentials and issues a bearer session
func (s *AccountService) Login(email, password string) (models.Session, error) {
	user, err := s.repo.FindUserByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, biddingerrors.ErrNotFound) {
			return models.Session{}, fmt.Errorf("service: %w", biddingerrors.ErrInvalidCredentials)
		}
		return models.Session{}, fmt.Errorf("service: failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return models.Session{}, fmt.Errorf("service: %w", biddingerrors.ErrInvalidCredentials)
	}

	now := s.clock.Now()
	session := models.Session{
		Token:     utils.GenerateID(),
		UserID:    user.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.SaveSession(session); err != nil {
		return models.Session{}, fmt.Errorf("service: failed to save session for user %s: %w", user.UserID, err)
	}
	return session, nil
}

// Logout revokes token
func (s *AccountService) Logout(token string) error {
	if err := s.sessions.DeleteSession(token); err != nil {
		return fmt.Errorf("service: failed to revoke session: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to the acting user's id
func (s *AccountService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("service: %w - missing token", biddingerrors.ErrUnauthenticated)
	}
	session, err := s.sessions.GetSession(token)
	if err != nil {
		return "", fmt.Errorf("service: %w", err)
	}
	if session.IsExpired(s.clock.Now()) {
		if err := s.sessions.DeleteSession(token); err != nil {
			utils.Warn("Authenticate: failed to revoke expired session", map[string]any{
				"user_id": session.UserID,
				"error":   err.Error(),
			})
		}
		return "", fmt.Errorf("service: %w - session expired", biddingerrors.ErrUnauthenticated)
	}
	return session.UserID, nil
}

// GetUser returns a user with its current ledger balance
func (s *AccountService) GetUser(userID string) (models.User, error) {
	if userID == "" {
		return models.User{}, fmt.Errorf("service: %w - empty user ID", biddingerrors.ErrInvalidUser)
	}

	user, err := s.repo.GetUser(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}
	balance, err := s.ledger.Balance(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to get balance for user %s: %w", userID, err)
	}
	user.Balance = balance
	return user, nil
}

// CreateItem lists a new item owned by sellerID
func (s *AccountService) CreateItem(sellerID, name, description, category string, startingPrice decimal.Decimal) (models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Item{}, fmt.Errorf("service: %w - empty item name", biddingerrors.ErrInvalidItem)
	}
	if startingPrice.IsNegative() {
		return models.Item{}, fmt.Errorf("service: %w - negative starting price %s", biddingerrors.ErrInvalidItem, startingPrice)
	}
	if _, err := s.repo.GetUser(sellerID); err != nil {
		return models.Item{}, fmt.Errorf("service: failed to resolve seller %s: %w", sellerID, err)
	}

	item := models.Item{
		ItemID:        utils.GenerateID(),
		SellerID:      sellerID,
		Name:          name,
		Description:   description,
		Category:      category,
		StartingPrice: startingPrice,
	}
	if err := s.repo.AddItem(item); err != nil {
		return models.Item{}, fmt.Errorf("service: failed to create item %s: %w", name, err)
	}
	return item, nil
}

// GetItem returns the item with itemID
func (s *AccountService) GetItem(itemID string) (models.Item, error) {
	if itemID == "" {
		return models.Item{}, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidItem)
	}

	item, err := s.repo.GetItem(itemID)
	if err != nil {
		return models.Item{}, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}
	return item, nil
}

// GetItemsBySeller returns the items listed by sellerID
func (s *AccountService) GetItemsBySeller(sellerID string) ([]models.Item, error) {
	items, err := s.repo.GetItemsBySeller(sellerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get items for seller %s: %w", sellerID, err)
	}
	return items, nil
}
