package demo

import (
	"bytes"
	"testing"
	"time"

	accounts "online-auction/internal/accountService"
	bidding "online-auction/internal/biddingService"
	"online-auction/internal/clock"
	"online-auction/internal/config"
	"online-auction/internal/ledger"
	"online-auction/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newServices(balance int64) (*accounts.AccountService, *bidding.AuctionLifecycle, *bidding.BiddingService, *ledger.MemoryLedger) {
	repo := repository.NewMemoryRepo()
	l := ledger.NewMemoryLedger()
	clk := clock.NewManual(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	acc := accounts.NewAccountService(repo, repository.NewMemorySessionStore(), l, clk, config.AccountsConfig{
		DefaultBalance: decimal.NewFromInt(balance),
		SessionTTL:     time.Hour,
		HashCost:       bcrypt.MinCost,
	})
	life := bidding.NewAuctionLifecycle(repo, repo, l, clk, config.AuctionConfig{
		DefaultDuration: 24 * time.Hour,
		MaxDuration:     72 * time.Hour,
	})
	return acc, life, bidding.NewBiddingService(repo, repo, l, clk), l
}

func TestSeed(t *testing.T) {
	t.Parallel()

	acc, life, _, _ := newServices(1000)
	f, err := Seed(acc, life)
	require.NoError(t, err)
	require.Equal(t, "john_doe", f.Seller.Username)
	require.Len(t, f.Created, 2)
	require.Len(t, life.ListActiveAuctions(), 2)
	require.Equal(t, f.Laptop.AuctionID, life.ListActiveAuctions()[0].AuctionID)

	_, err = Seed(acc, life)
	require.Error(t, err, "seeding twice collides on usernames")
}

func TestRun(t *testing.T) {
	t.Parallel()

	acc, life, engine, l := newServices(2000)
	var out bytes.Buffer
	require.NoError(t, Run(&out, acc, life, engine))

	transcript := out.String()
	require.Contains(t, transcript, "alice_smith bid 1300.00")
	require.Contains(t, transcript, "bob_johnson bid 1400.00")
	require.Contains(t, transcript, "alice_smith bid 1500.00")
	require.Contains(t, transcript, "Leader: alice_smith")
	require.Contains(t, transcript, "Laptop auction closed: settled")
	require.Contains(t, transcript, "john_doe: 3500.00")
	require.Contains(t, transcript, "alice_smith: 500.00")
	require.Contains(t, transcript, "bob_johnson: 2000.00")
	require.Contains(t, transcript, "Rolex Submariner - Current bid: 0.00")
	require.NotContains(t, transcript, "MacBook Pro - Current bid")
	require.True(t, decimal.NewFromInt(6000).Equal(l.Total()))
}

func TestRun_DefaultBalanceTooLow(t *testing.T) {
	t.Parallel()

	acc, life, engine, _ := newServices(1000)
	var out bytes.Buffer
	require.NoError(t, Run(&out, acc, life, engine))

	transcript := out.String()
	require.Contains(t, transcript, "alice_smith bid 1300 rejected")
	require.Contains(t, transcript, "insufficient funds")
	require.Contains(t, transcript, "Laptop auction closed: closed_no_bids")
	require.Contains(t, transcript, "john_doe: 1000.00")
}
