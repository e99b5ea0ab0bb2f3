package bidding

import (
	"errors"
	"fmt"
	"time"

	"online-auction/internal/auction"
	"online-auction/internal/biddingerrors"
	"online-auction/internal/clock"
	"online-auction/internal/config"
	"online-auction/internal/ledger"
	"online-auction/internal/models"
	"online-auction/internal/repository"
	"online-auction/utils"
)

const (
	StatusActive = "Active"
	StatusClosed = "Closed"
)

// AuctionLifecycle owns auction creation, status and the close-and-settle
// transition
type AuctionLifecycle struct {
	auctions  repository.AuctionDB
	directory repository.Directory
	ledger    ledger.Ledger
	clock     clock.Clock
	cfg       config.AuctionConfig
}

// NewAuctionLifecycle creates a new AuctionLifecycle instance
func NewAuctionLifecycle(auctions repository.AuctionDB, directory repository.Directory, l ledger.Ledger, clk clock.Clock, cfg config.AuctionConfig) *AuctionLifecycle {
	return &AuctionLifecycle{
		auctions:  auctions,
		directory: directory,
		ledger:    l,
		clock:     clk,
		cfg:       cfg,
	}
}

// CreateAuction opens an auction on the seller's item. A zero duration uses the
// configured default.
func (l *AuctionLifecycle) CreateAuction(itemID, sellerID string, duration time.Duration) (models.Auction, error) {
	if itemID == "" || sellerID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - missing itemID or sellerID", biddingerrors.ErrInvalidAuction)
	}
	if duration == 0 {
		duration = l.cfg.DefaultDuration
	}
	if duration < 0 || duration > l.cfg.MaxDuration {
		return models.Auction{}, fmt.Errorf("service: %w - duration %s outside (0, %s]", biddingerrors.ErrInvalidAuction, duration, l.cfg.MaxDuration)
	}

	item, err := l.directory.GetItem(itemID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction for item %s: %w", itemID, err)
	}
	if item.SellerID != sellerID {
		return models.Auction{}, fmt.Errorf("service: %w - user %s does not own item %s", biddingerrors.ErrNotAuthorized, sellerID, itemID)
	}

	now := l.clock.Now()
	state := auction.New(utils.GenerateID(), itemID, sellerID, now, duration)
	if err := l.auctions.AddAuction(state); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to store auction for item %s: %w", itemID, err)
	}
	return state.Snapshot(now), nil
}

// IsActive reports whether auctionID accepts bids now, closing it if it has expired
func (l *AuctionLifecycle) IsActive(auctionID string) (bool, error) {
	state, err := l.auctions.GetAuction(auctionID)
	if err != nil {
		return false, fmt.Errorf("service: failed to check auction %s: %w", auctionID, err)
	}
	return state.IsActive(l.clock.Now()), nil
}

// GetAuction returns a snapshot of auctionID
func (l *AuctionLifecycle) GetAuction(auctionID string) (models.Auction, error) {
	state, err := l.auctions.GetAuction(auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return state.Snapshot(l.clock.Now()), nil
}

// ListActiveAuctions returns open, unexpired auctions ordered by end time.
// Every auction inspected has lazy expiry applied.
func (l *AuctionLifecycle) ListActiveAuctions() []models.Auction {
	now := l.clock.Now()
	active := make([]models.Auction, 0)
	for _, st := range l.auctions.ListAuctions() {
		snap := st.Snapshot(now)
		if snap.Open {
			active = append(active, snap)
		}
	}
	return active
}

// GetAuctionDetails returns the display projection of auctionID
func (l *AuctionLifecycle) GetAuctionDetails(auctionID string) (models.AuctionDetails, error) {
	snap, err := l.GetAuction(auctionID)
	if err != nil {
		return models.AuctionDetails{}, err
	}
	item, err := l.directory.GetItem(snap.ItemID)
	if err != nil {
		return models.AuctionDetails{}, fmt.Errorf("service: failed to resolve item for auction %s: %w", auctionID, err)
	}
	seller, err := l.directory.GetUser(snap.SellerID)
	if err != nil {
		return models.AuctionDetails{}, fmt.Errorf("service: failed to resolve seller for auction %s: %w", auctionID, err)
	}

	details := models.AuctionDetails{
		Auction:    snap,
		Item:       item,
		SellerName: seller.Username,
		Status:     StatusClosed,
		History:    make([]models.BidEntry, 0, len(snap.Bids)),
	}
	if snap.Open {
		details.Status = StatusActive
	}

	names := map[string]string{}
	nameOf := func(userID string) string {
		if n, ok := names[userID]; ok {
			return n
		}
		n := userID
		if u, err := l.directory.GetUser(userID); err == nil {
			n = u.Username
		}
		names[userID] = n
		return n
	}
	if snap.HasLeader() {
		details.LeaderName = nameOf(snap.CurrentHighestBidder)
	}
	for i := len(snap.Bids) - 1; i >= 0; i-- {
		b := snap.Bids[i]
		details.History = append(details.History, models.BidEntry{Bid: b, Username: nameOf(b.UserID)})
	}
	return details, nil
}

// CloseAuction closes auctionID on behalf of its seller and settles funds with
// the leader. Settlement is attempted once; later calls return the recorded
// outcome without moving funds.
func (l *AuctionLifecycle) CloseAuction(auctionID, requesterID string) (models.Settlement, error) {
	state, err := l.auctions.GetAuction(auctionID)
	if err != nil {
		return models.Settlement{}, fmt.Errorf("service: failed to close auction %s: %w", auctionID, err)
	}
	if state.SellerID() != requesterID {
		return models.Settlement{}, fmt.Errorf("service: %w - user %s cannot close auction %s", biddingerrors.ErrNotAuthorized, requesterID, auctionID)
	}

	var settlement models.Settlement
	err = state.WithLock(func(r *auction.Record) error {
		r.Close()

		if prev := r.Settlement(); prev != nil {
			settlement = *prev
			if prev.Outcome == models.OutcomeFailed {
				return biddingerrors.ErrSettlementFailed
			}
			return nil
		}

		settlement = models.Settlement{
			AuctionID: auctionID,
			SellerID:  r.SellerID(),
			WinnerID:  r.HighestBidder(),
			Amount:    r.HighestBid(),
			ClosedAt:  l.clock.Now(),
		}
		if settlement.WinnerID == "" {
			settlement.Outcome = models.OutcomeClosedNoBids
			r.SetSettlement(settlement)
			return nil
		}

		if err := l.ledger.Settle(settlement.WinnerID, settlement.SellerID, settlement.Amount); err != nil {
			settlement.Outcome = models.OutcomeFailed
			r.SetSettlement(settlement)
			if errors.Is(err, biddingerrors.ErrSettlementFailed) {
				return err
			}
			return fmt.Errorf("%w: %w", biddingerrors.ErrSettlementFailed, err)
		}
		settlement.Outcome = models.OutcomeSettled
		r.SetSettlement(settlement)
		return nil
	})

	fields := map[string]any{
		"auction_id": auctionID,
		"seller_id":  settlement.SellerID,
		"winner_id":  settlement.WinnerID,
		"amount":     settlement.Amount.StringFixed(2),
		"outcome":    string(settlement.Outcome),
	}
	if err != nil {
		fields["error"] = err.Error()
		utils.Warn("CloseAuction: settlement failed", fields)
		return models.Settlement{}, fmt.Errorf("service: failed to settle auction %s: %w", auctionID, err)
	}

	utils.Info("CloseAuction: auction closed", fields)
	return settlement, nil
}
