package bidding

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"online-auction/internal/auction"
	"online-auction/internal/biddingerrors"
	"online-auction/internal/clock"
	"online-auction/internal/ledger"
	model "online-auction/internal/models"
	"online-auction/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Tests PlaceBid
func TestBiddingService_PlaceBid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		setup         func(t *testing.T, f *fixture, auctionID string)
		auctionID     string
		bidderID      string
		amount        decimal.Decimal
		expectedError error
		wantOpen      bool
	}{
		{name: "valid_first_bid", bidderID: "alice", amount: d(1300), wantOpen: true},
		{name: "empty_auctionID", auctionID: "-", bidderID: "alice", amount: d(1300), expectedError: biddingerrors.ErrAuctionNotFound, wantOpen: true},
		{name: "empty_bidderID", bidderID: "", amount: d(1300), expectedError: biddingerrors.ErrUserNotFound, wantOpen: true},
		{name: "zero_amount", bidderID: "alice", amount: decimal.Zero, expectedError: biddingerrors.ErrBidTooLow, wantOpen: true},
		{name: "negative_amount", bidderID: "alice", amount: d(-5), expectedError: biddingerrors.ErrBidTooLow, wantOpen: true},
		{name: "unknown_auction_negative_amount", auctionID: "nope", bidderID: "alice", amount: d(-1), expectedError: biddingerrors.ErrNotFound, wantOpen: true},
		{name: "self_bid_zero_amount", bidderID: "seller", amount: decimal.Zero, expectedError: biddingerrors.ErrSelfBid, wantOpen: true},
		{
			name: "expired_negative_amount",
			setup: func(t *testing.T, f *fixture, auctionID string) {
				f.clock.Advance(time.Hour + time.Second)
			},
			bidderID: "alice", amount: d(-1), expectedError: biddingerrors.ErrAuctionEnded, wantOpen: false,
		},
		{name: "unknown_auction", auctionID: "nope", bidderID: "alice", amount: d(1300), expectedError: biddingerrors.ErrNotFound, wantOpen: true},
		{name: "self_bid", bidderID: "seller", amount: d(1300), expectedError: biddingerrors.ErrSelfBid, wantOpen: true},
		{name: "equal_to_starting_price", bidderID: "alice", amount: d(1000), expectedError: biddingerrors.ErrBidTooLow, wantOpen: true},
		{name: "below_starting_price", bidderID: "alice", amount: d(999), expectedError: biddingerrors.ErrBidTooLow, wantOpen: true},
		{name: "fractionally_above_starting_price", bidderID: "alice", amount: decimal.RequireFromString("1000.01"), wantOpen: true},
		{
			name: "equal_to_highest",
			setup: func(t *testing.T, f *fixture, auctionID string) {
				_, err := f.service.PlaceBid(auctionID, "alice", d(1300))
				require.NoError(t, err)
			},
			bidderID: "bob", amount: d(1300), expectedError: biddingerrors.ErrBidTooLow, wantOpen: true,
		},
		{
			name: "below_highest",
			setup: func(t *testing.T, f *fixture, auctionID string) {
				_, err := f.service.PlaceBid(auctionID, "alice", d(1300))
				require.NoError(t, err)
			},
			bidderID: "bob", amount: d(1200), expectedError: biddingerrors.ErrBidTooLow, wantOpen: true,
		},
		{name: "insufficient_funds", bidderID: "alice", amount: d(2001), expectedError: biddingerrors.ErrInsufficientFunds, wantOpen: true},
		{name: "entire_balance", bidderID: "alice", amount: d(2000), wantOpen: true},
		{name: "unknown_bidder", bidderID: "ghost", amount: d(1300), expectedError: biddingerrors.ErrUserNotFound, wantOpen: true},
		{
			name: "closed_by_seller",
			setup: func(t *testing.T, f *fixture, auctionID string) {
				_, err := f.lifecycle.CloseAuction(auctionID, "seller")
				require.NoError(t, err)
			},
			bidderID: "alice", amount: d(1300), expectedError: biddingerrors.ErrAuctionClosed, wantOpen: false,
		},
		{
			name: "after_end_time",
			setup: func(t *testing.T, f *fixture, auctionID string) {
				f.clock.Advance(time.Hour + time.Second)
			},
			bidderID: "alice", amount: d(1300), expectedError: biddingerrors.ErrAuctionEnded, wantOpen: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f, auctionID := standard(t)
			if tc.setup != nil {
				tc.setup(t, f, auctionID)
			}
			target := auctionID
			switch tc.auctionID {
			case "":
			case "-":
				target = ""
			default:
				target = tc.auctionID
			}
			before, _ := f.lifecycle.GetAuction(auctionID)

			bid, err := f.service.PlaceBid(target, tc.bidderID, tc.amount)

			after, getErr := f.lifecycle.GetAuction(auctionID)
			require.NoError(t, getErr)
			require.Equal(t, tc.wantOpen, after.Open)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				require.Len(t, after.Bids, len(before.Bids))
				return
			}
			require.NoError(t, err)

			_, parseErr := uuid.Parse(bid.BidID)
			require.NoError(t, parseErr, "BidID should be a valid UUID")
			require.Equal(t, auctionID, bid.AuctionID)
			require.Equal(t, tc.bidderID, bid.UserID)
			require.True(t, tc.amount.Equal(bid.Amount))
			require.Equal(t, start, bid.CreatedAt)

			require.Equal(t, bid, after.Bids[len(after.Bids)-1])
			require.True(t, tc.amount.Equal(after.CurrentHighestBid))
			require.Equal(t, tc.bidderID, after.CurrentHighestBidder)
		})
	}
}

func TestBiddingService_PlaceBid_CheckOrder(t *testing.T) {
	t.Parallel()

	t.Run("self_bid_before_expiry", func(t *testing.T) {
		t.Parallel()
		f, auctionID := standard(t)
		f.clock.Advance(2 * time.Hour)

		_, err := f.service.PlaceBid(auctionID, "seller", d(1300))
		require.ErrorIs(t, err, biddingerrors.ErrSelfBid)
	})

	t.Run("expiry_before_amount", func(t *testing.T) {
		t.Parallel()
		f, auctionID := standard(t)
		f.clock.Advance(2 * time.Hour)

		_, err := f.service.PlaceBid(auctionID, "alice", d(1))
		require.ErrorIs(t, err, biddingerrors.ErrAuctionEnded)
	})

	t.Run("amount_before_funds", func(t *testing.T) {
		t.Parallel()
		f, auctionID := standard(t)
		f.addUser(t, "poor", 10)

		_, err := f.service.PlaceBid(auctionID, "poor", d(500))
		require.ErrorIs(t, err, biddingerrors.ErrBidTooLow)
		require.False(t, errors.Is(err, biddingerrors.ErrInsufficientFunds))
	})
}

func TestBiddingService_PlaceBid_EndTimeBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		offset     time.Duration
		wantErr    error
		wantActive bool
	}{
		{name: "one_before_end", offset: time.Hour - time.Nanosecond, wantActive: true},
		{name: "exactly_at_end", offset: time.Hour, wantActive: true},
		{name: "one_after_end", offset: time.Hour + time.Nanosecond, wantErr: biddingerrors.ErrAuctionEnded},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f, auctionID := standard(t)
			f.clock.Set(start.Add(tc.offset))

			_, err := f.service.PlaceBid(auctionID, "alice", d(1300))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			active, err := f.lifecycle.IsActive(auctionID)
			require.NoError(t, err)
			require.Equal(t, tc.wantActive, active)
		})
	}
}

func TestBiddingService_PlaceBid_NoEscrow(t *testing.T) {
	t.Parallel()

	f, auctionID := standard(t)

	_, err := f.service.PlaceBid(auctionID, "alice", d(1300))
	require.NoError(t, err)
	_, err = f.service.PlaceBid(auctionID, "bob", d(1400))
	require.NoError(t, err)
	_, err = f.service.PlaceBid(auctionID, "alice", d(1500))
	require.NoError(t, err)

	require.True(t, d(2000).Equal(f.balance(t, "alice")))
	require.True(t, d(2000).Equal(f.balance(t, "bob")))
	require.True(t, d(1000).Equal(f.balance(t, "seller")))
}

func TestBiddingService_PlaceBid_Concurrent(t *testing.T) {
	t.Parallel()

	f, auctionID := standard(t)
	bidders := 50
	for i := 0; i < bidders; i++ {
		f.addUser(t, fmt.Sprintf("user-%d", i), 10_000)
	}

	var wg sync.WaitGroup
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			// every bidder races with the same amount ladder
			for step := 1; step <= 20; step++ {
				_, err := f.service.PlaceBid(auctionID, fmt.Sprintf("user-%d", i), d(int64(1000+step*10)))
				if err != nil && !errors.Is(err, biddingerrors.ErrBidTooLow) {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	snap, err := f.lifecycle.GetAuction(auctionID)
	require.NoError(t, err)
	require.NotEmpty(t, snap.Bids)
	require.LessOrEqual(t, len(snap.Bids), 20, "no rung of the ladder is accepted twice")
	for i := 1; i < len(snap.Bids); i++ {
		require.True(t, snap.Bids[i].Amount.GreaterThan(snap.Bids[i-1].Amount), "bids must be strictly increasing")
	}
	last := snap.Bids[len(snap.Bids)-1]
	require.True(t, d(1200).Equal(snap.CurrentHighestBid))
	require.Equal(t, last.UserID, snap.CurrentHighestBidder)
}

func TestBiddingService_GetBidsForAuction(t *testing.T) {
	t.Parallel()

	f, auctionID := standard(t)

	_, err := f.service.GetBidsForAuction(auctionID)
	require.ErrorIs(t, err, biddingerrors.ErrNoBids)

	first, err := f.service.PlaceBid(auctionID, "alice", d(1300))
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.service.PlaceBid(auctionID, "bob", d(1400))
	require.NoError(t, err)

	bids, err := f.service.GetBidsForAuction(auctionID)
	require.NoError(t, err)
	require.Equal(t, []model.Bid{first, second}, bids)

	_, err = f.service.GetBidsForAuction("")
	require.ErrorIs(t, err, biddingerrors.ErrInvalidBid)
	_, err = f.service.GetBidsForAuction("missing")
	require.ErrorIs(t, err, biddingerrors.ErrAuctionNotFound)
}

func TestBiddingService_GetWinningBid(t *testing.T) {
	t.Parallel()

	f, auctionID := standard(t)

	_, err := f.service.GetWinningBid(auctionID)
	require.ErrorIs(t, err, biddingerrors.ErrNoBids)

	_, err = f.service.PlaceBid(auctionID, "alice", d(1300))
	require.NoError(t, err)
	winning, err := f.service.PlaceBid(auctionID, "bob", d(1400))
	require.NoError(t, err)
	_, err = f.service.PlaceBid(auctionID, "carol", d(1350))
	require.ErrorIs(t, err, biddingerrors.ErrBidTooLow)

	got, err := f.service.GetWinningBid(auctionID)
	require.NoError(t, err)
	require.Equal(t, winning, got)

	_, err = f.service.GetWinningBid("")
	require.ErrorIs(t, err, biddingerrors.ErrInvalidBid)
	_, err = f.service.GetWinningBid("missing")
	require.ErrorIs(t, err, biddingerrors.ErrAuctionNotFound)
}

func TestBiddingService_GetAuctionsByUser(t *testing.T) {
	t.Parallel()

	f, auctionID := standard(t)
	f.addItem(t, "watch", "seller", 100)
	watchID := f.openAuction(t, "watch", "seller", 2*time.Hour)

	_, err := f.service.GetAuctionsByUser("alice")
	require.ErrorIs(t, err, biddingerrors.ErrUserNoBids)

	_, err = f.service.PlaceBid(auctionID, "alice", d(1300))
	require.NoError(t, err)
	_, err = f.service.PlaceBid(auctionID, "bob", d(1400))
	require.NoError(t, err)
	_, err = f.service.PlaceBid(auctionID, "alice", d(1500))
	require.NoError(t, err)
	_, err = f.service.PlaceBid(watchID, "alice", d(150))
	require.NoError(t, err)

	auctions, err := f.service.GetAuctionsByUser("alice")
	require.NoError(t, err)
	require.Len(t, auctions, 2)
	require.Equal(t, auctionID, auctions[0].AuctionID)
	require.Equal(t, watchID, auctions[1].AuctionID)

	_, err = f.service.GetAuctionsByUser("")
	require.ErrorIs(t, err, biddingerrors.ErrInvalidBid)
}

func TestBiddingService_RepoFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuctions := repository.NewMockAuctionDB(ctrl)
	mockDirectory := repository.NewMockDirectory(ctrl)
	l := ledger.NewMemoryLedger()
	require.NoError(t, l.Open("alice", d(2000)))
	service := NewBiddingService(mockAuctions, mockDirectory, l, clock.NewManual(start))

	state := auction.New("auction1", "item1", "seller", start, time.Hour)

	t.Run("auction_lookup_fails", func(t *testing.T) {
		mockAuctions.EXPECT().GetAuction("auction1").Return(nil, errors.New("db failure"))
		_, err := service.PlaceBid("auction1", "alice", d(100))
		require.Error(t, err)
	})

	t.Run("item_lookup_fails", func(t *testing.T) {
		mockAuctions.EXPECT().GetAuction("auction1").Return(state, nil)
		mockDirectory.EXPECT().GetItem("item1").Return(model.Item{}, biddingerrors.ErrItemNotFound)
		_, err := service.PlaceBid("auction1", "alice", d(100))
		require.ErrorIs(t, err, biddingerrors.ErrNotFound)
	})

	t.Run("bidder_index_fails_bid_still_recorded", func(t *testing.T) {
		mockAuctions.EXPECT().GetAuction("auction1").Return(state, nil)
		mockDirectory.EXPECT().GetItem("item1").Return(model.Item{ItemID: "item1", SellerID: "seller", StartingPrice: d(50)}, nil)
		mockAuctions.EXPECT().RecordBidder("alice", "auction1").Return(errors.New("index failure"))

		bid, err := service.PlaceBid("auction1", "alice", d(100))
		require.NoError(t, err)
		require.True(t, d(100).Equal(bid.Amount))
		require.Len(t, state.Snapshot(start).Bids, 1)
	})

	t.Run("bidder_lookup_fails", func(t *testing.T) {
		mockAuctions.EXPECT().GetAuctionsByBidder("alice").Return(nil, errors.New("db failure"))
		_, err := service.GetAuctionsByUser("alice")
		require.Error(t, err)
	})
}
