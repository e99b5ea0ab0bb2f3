package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"online-auction/internal/auction"
	"online-auction/internal/biddingerrors"
	model "online-auction/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository
//go:generate mockgen -source=session.go -destination=mock_session.go -package=repository

// Directory defines id lookups for users and items
type Directory interface {
	GetUser(userID string) (model.User, error)
	GetItem(itemID string) (model.Item, error)
}

// AccountDB defines user and item storage for registration and listing
type AccountDB interface {
	Directory
	AddUser(user model.User) error
	FindUserByEmail(email string) (model.User, error)
	AddItem(item model.Item) error
	GetItemsBySeller(sellerID string) ([]model.Item, error)
}

// AuctionDB defines the auction storage interface for the auction system
type AuctionDB interface {
	AddAuction(state *auction.State) error
	GetAuction(auctionID string) (*auction.State, error)
	ListAuctions() []*auction.State
	RecordBidder(userID, auctionID string) error
	GetAuctionsByBidder(userID string) ([]*auction.State, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AccountDB and AuctionDB.
// Per-auction mutable state is guarded by each auction.State; the repo lock
// only covers the maps.
type MemoryRepo struct {
	mu            sync.RWMutex
	users         map[string]model.User     // key: userID -> value: user
	emails        map[string]string         // key: lowercased email -> value: userID
	usernames     map[string]string         // key: username -> value: userID
	items         map[string]model.Item     // key: itemID -> value: item
	auctions      map[string]*auction.State // key: auctionID -> value: auction state
	bidderAuction map[string][]string       // key: userID -> value: auctionIDs user has bid on
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:         make(map[string]model.User),
		emails:        make(map[string]string),
		usernames:     make(map[string]string),
		items:         make(map[string]model.Item),
		auctions:      make(map[string]*auction.State),
		bidderAuction: make(map[string][]string),
	}
}

// AddUser stores a user, rejecting duplicate ids, usernames and emails
func (r *MemoryRepo) AddUser(user model.User) error {
	if user.UserID == "" {
		return fmt.Errorf("add user: %w - empty user ID", biddingerrors.ErrInvalidUser)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.users[user.UserID]; ok {
		return fmt.Errorf("add user %s: %w", user.UserID, biddingerrors.ErrUserExists)
	}
	if _, ok := r.usernames[user.Username]; ok {
		return fmt.Errorf("add user %s: %w", user.Username, biddingerrors.ErrUserExists)
	}
	if _, ok := r.emails[email]; ok {
		return fmt.Errorf("add user %s: %w", user.Email, biddingerrors.ErrUserExists)
	}

	r.users[user.UserID] = user
	r.usernames[user.Username] = user.UserID
	r.emails[email] = user.UserID
	return nil
}

// GetUser returns the user with userID
func (r *MemoryRepo) GetUser(userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, biddingerrors.ErrUserNotFound)
	}
	return user, nil
}

// FindUserByEmail returns the user registered with email, case-insensitively
func (r *MemoryRepo) FindUserByEmail(email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[strings.ToLower(email)]
	if !ok {
		return model.User{}, fmt.Errorf("find user by email: %w", biddingerrors.ErrUserNotFound)
	}
	return r.users[id], nil
}

// AddItem stores an item
func (r *MemoryRepo) AddItem(item model.Item) error {
	if item.ItemID == "" {
		return fmt.Errorf("add item: %w - empty item ID", biddingerrors.ErrInvalidItem)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ItemID]; ok {
		return fmt.Errorf("add item %s: %w - duplicate item ID", item.ItemID, biddingerrors.ErrInvalidItem)
	}
	r.items[item.ItemID] = item
	return nil
}

// GetItem returns the item with itemID
func (r *MemoryRepo) GetItem(itemID string) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	return item, nil
}

// GetItemsBySeller returns all items listed by sellerID, ordered by name
func (r *MemoryRepo) GetItemsBySeller(sellerID string) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.users[sellerID]; !ok {
		return nil, fmt.Errorf("get items for seller %s: %w", sellerID, biddingerrors.ErrUserNotFound)
	}

	items := make([]model.Item, 0)
	for _, item := range r.items {
		if item.SellerID == sellerID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name == items[j].Name {
			return items[i].ItemID < items[j].ItemID
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// AddAuction stores an auction state
func (r *MemoryRepo) AddAuction(state *auction.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[state.ItemID()]; !ok {
		return fmt.Errorf("add auction for item %s: %w", state.ItemID(), biddingerrors.ErrItemNotFound)
	}
	if _, ok := r.auctions[state.ID()]; ok {
		return fmt.Errorf("add auction %s: %w - duplicate auction ID", state.ID(), biddingerrors.ErrInvalidAuction)
	}
	r.auctions[state.ID()] = state
	return nil
}

// GetAuction returns the live state of auctionID
func (r *MemoryRepo) GetAuction(auctionID string) (*auction.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("get auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	return state, nil
}

// ListAuctions returns every auction ordered by end time
func (r *MemoryRepo) ListAuctions() []*auction.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make([]*auction.State, 0, len(r.auctions))
	for _, s := range r.auctions {
		states = append(states, s)
	}
	sortByEndTime(states)
	return states
}

// RecordBidder indexes that userID has bid on auctionID
func (r *MemoryRepo) RecordBidder(userID, auctionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return fmt.Errorf("record bidder for auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	for _, id := range r.bidderAuction[userID] {
		if id == auctionID {
			return nil
		}
	}
	r.bidderAuction[userID] = append(r.bidderAuction[userID], auctionID)
	return nil
}

// GetAuctionsByBidder returns all auctions a user has bid on
func (r *MemoryRepo) GetAuctionsByBidder(userID string) ([]*auction.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, ok := r.bidderAuction[userID]
	if !ok || len(ids) == 0 {
		return nil, fmt.Errorf("get auctions for user %s: %w", userID, biddingerrors.ErrUserNoBids)
	}

	states := make([]*auction.State, 0, len(ids))
	for _, id := range ids {
		if s, exists := r.auctions[id]; exists {
			states = append(states, s)
		}
	}
	return states, nil
}

func sortByEndTime(states []*auction.State) {
	sort.Slice(states, func(i, j int) bool {
		ei, ej := states[i].EndTime(), states[j].EndTime()
		if ei.Equal(ej) {
			return states[i].ID() < states[j].ID()
		}
		return ei.Before(ej)
	})
}
