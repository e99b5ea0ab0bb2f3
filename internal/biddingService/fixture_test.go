package bidding

import (
	"testing"
	"time"

	"online-auction/internal/clock"
	"online-auction/internal/config"
	"online-auction/internal/ledger"
	model "online-auction/internal/models"
	"online-auction/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

var auctionConfig = config.AuctionConfig{
	DefaultDuration: 24 * time.Hour,
	MaxDuration:     72 * time.Hour,
}

type fixture struct {
	repo      *repository.MemoryRepo
	ledger    *ledger.MemoryLedger
	clock     *clock.Manual
	service   *BiddingService
	lifecycle *AuctionLifecycle
}

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// Helper to build services over in-memory collaborators
func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewMemoryRepo()
	l := ledger.NewMemoryLedger()
	clk := clock.NewManual(start)
	return &fixture{
		repo:      repo,
		ledger:    l,
		clock:     clk,
		service:   NewBiddingService(repo, repo, l, clk),
		lifecycle: NewAuctionLifecycle(repo, repo, l, clk, auctionConfig),
	}
}

func (f *fixture) addUser(t *testing.T, userID string, balance int64) {
	t.Helper()
	require.NoError(t, f.repo.AddUser(model.User{UserID: userID, Username: userID + "_name", Email: userID + "@example.com"}))
	require.NoError(t, f.ledger.Open(userID, d(balance)))
}

func (f *fixture) addItem(t *testing.T, itemID, sellerID string, startingPrice int64) {
	t.Helper()
	require.NoError(t, f.repo.AddItem(model.Item{
		ItemID:        itemID,
		SellerID:      sellerID,
		Name:          itemID + " name",
		StartingPrice: d(startingPrice),
	}))
}

func (f *fixture) openAuction(t *testing.T, itemID, sellerID string, duration time.Duration) string {
	t.Helper()
	a, err := f.lifecycle.CreateAuction(itemID, sellerID, duration)
	require.NoError(t, err)
	return a.AuctionID
}

func (f *fixture) balance(t *testing.T, userID string) decimal.Decimal {
	t.Helper()
	bal, err := f.ledger.Balance(userID)
	require.NoError(t, err)
	return bal
}

// standard seeds a seller with a 1000 starting-price item on a one hour
// auction and three bidders with 2000 each
func standard(t *testing.T) (*fixture, string) {
	t.Helper()
	f := newFixture(t)
	f.addUser(t, "seller", 1000)
	f.addUser(t, "alice", 2000)
	f.addUser(t, "bob", 2000)
	f.addUser(t, "carol", 2000)
	f.addItem(t, "laptop", "seller", 1000)
	return f, f.openAuction(t, "laptop", "seller", time.Hour)
}
