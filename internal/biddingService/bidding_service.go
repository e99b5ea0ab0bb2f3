package bidding

import (
	"fmt"

	"online-auction/internal/auction"
	"online-auction/internal/biddingerrors"
	"online-auction/internal/clock"
	"online-auction/internal/ledger"
	"online-auction/internal/models"
	"online-auction/internal/repository"
	"online-auction/utils"

	"github.com/shopspring/decimal"
)

// BiddingService validates and applies bids against auction state
type BiddingService struct {
	auctions  repository.AuctionDB
	directory repository.Directory
	ledger    ledger.Ledger
	clock     clock.Clock
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(auctions repository.AuctionDB, directory repository.Directory, l ledger.Ledger, clk clock.Clock) *BiddingService {
	return &BiddingService{
		auctions:  auctions,
		directory: directory,
		ledger:    l,
		clock:     clk,
	}
}

// PlaceBid validates and records bidderID's bid on auctionID. Checks run in a
// fixed order and the first failure wins: auction exists, bidder is not the
// seller, auction is open and not expired, amount beats the current leader
// (or the starting price), bidder's balance covers the amount.
//
// Funds are checked, not reserved. Nothing moves until settlement.
func (s *BiddingService) PlaceBid(auctionID, bidderID string, amount decimal.Decimal) (models.Bid, error) {
	// non-positive amounts never clear the floor and fail as BidTooLow
	state, err := s.auctions.GetAuction(auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to place bid on auction %s: %w", auctionID, err)
	}

	item, err := s.directory.GetItem(state.ItemID())
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to resolve item for auction %s: %w", auctionID, err)
	}
	if item.SellerID == bidderID {
		return models.Bid{}, fmt.Errorf("service: %w - user %s sells item %s", biddingerrors.ErrSelfBid, bidderID, item.ItemID)
	}

	var bid models.Bid
	err = state.WithLock(func(r *auction.Record) error {
		now := s.clock.Now()
		if !r.Active(now) {
			if r.Expired(now) {
				return fmt.Errorf("%w - ended at %s", biddingerrors.ErrAuctionEnded, r.EndTime().Format("2006-01-02 15:04:05"))
			}
			return biddingerrors.ErrAuctionClosed
		}

		floor := item.StartingPrice
		if r.BidCount() > 0 {
			floor = r.HighestBid()
		}
		if !amount.GreaterThan(floor) {
			return fmt.Errorf("%w - must exceed %s", biddingerrors.ErrBidTooLow, floor.StringFixed(2))
		}

		balance, err := s.ledger.Balance(bidderID)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return fmt.Errorf("%w - balance %s, bid %s", biddingerrors.ErrInsufficientFunds, balance.StringFixed(2), amount.StringFixed(2))
		}

		bid = models.Bid{
			BidID:     utils.GenerateID(),
			AuctionID: auctionID,
			UserID:    bidderID,
			Amount:    amount,
			CreatedAt: now,
		}
		r.Append(bid)
		return nil
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: bid on auction %s by user %s rejected: %w", auctionID, bidderID, err)
	}

	if err := s.auctions.RecordBidder(bidderID, auctionID); err != nil {
		// the bid itself is already part of the auction history
		utils.Warn("PlaceBid: failed to index bidder", map[string]any{
			"auction_id": auctionID,
			"user_id":    bidderID,
			"error":      err.Error(),
		})
	}

	return bid, nil
}

// GetBidsForAuction returns all bids for an auction in chronological order
func (s *BiddingService) GetBidsForAuction(auctionID string) ([]models.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrInvalidBid)
	}

	state, err := s.auctions.GetAuction(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}

	snap := state.Snapshot(s.clock.Now())
	if len(snap.Bids) == 0 {
		return nil, fmt.Errorf("service: get bids for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	return snap.Bids, nil
}

// GetWinningBid returns the current leading bid for an auction
func (s *BiddingService) GetWinningBid(auctionID string) (models.Bid, error) {
	if auctionID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrInvalidBid)
	}

	state, err := s.auctions.GetAuction(auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for auction %s: %w", auctionID, err)
	}

	snap := state.Snapshot(s.clock.Now())
	if !snap.HasLeader() {
		return models.Bid{}, fmt.Errorf("service: get winning bid for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	return leadingBid(snap), nil
}

// GetAuctionsByUser returns all auctions a user has placed bids on
func (s *BiddingService) GetAuctionsByUser(userID string) ([]models.Auction, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", biddingerrors.ErrInvalidBid)
	}

	states, err := s.auctions.GetAuctionsByBidder(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get auctions for user %s: %w", userID, err)
	}

	now := s.clock.Now()
	out := make([]models.Auction, 0, len(states))
	for _, st := range states {
		out = append(out, st.Snapshot(now))
	}
	return out, nil
}

// leadingBid finds the earliest bid matching the leader cache
func leadingBid(a models.Auction) models.Bid {
	for _, b := range a.Bids {
		if b.UserID == a.CurrentHighestBidder && b.Amount.Equal(a.CurrentHighestBid) {
			return b
		}
	}
	return models.Bid{}
}
