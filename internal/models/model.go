package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered participant. Balance is owned by the ledger
// and only filled in on read projections.
type User struct {
	UserID       string          `json:"user_id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	PasswordHash []byte          `json:"-"`
	Balance      decimal.Decimal `json:"balance"`
}

// Item represents a listed item. Immutable after creation.
type Item struct {
	ItemID        string          `json:"item_id"`
	SellerID      string          `json:"seller_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	StartingPrice decimal.Decimal `json:"starting_price"`
}

// Bid represents a user's bid on an auction
type Bid struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// SettlementOutcome describes what happened to funds when an auction closed.
type SettlementOutcome string

const (
	OutcomeSettled      SettlementOutcome = "settled"
	OutcomeClosedNoBids SettlementOutcome = "closed_no_bids"
	OutcomeFailed       SettlementOutcome = "settlement_failed"
)

// Settlement is the recorded result of closing an auction
type Settlement struct {
	AuctionID string            `json:"auction_id"`
	Outcome   SettlementOutcome `json:"outcome"`
	WinnerID  string            `json:"winner_id,omitempty"`
	SellerID  string            `json:"seller_id"`
	Amount    decimal.Decimal   `json:"amount"`
	ClosedAt  time.Time         `json:"closed_at"`
}

// Auction is a point-in-time copy of an auction's state. Bids are in
// chronological order.
type Auction struct {
	AuctionID            string          `json:"auction_id"`
	ItemID               string          `json:"item_id"`
	SellerID             string          `json:"seller_id"`
	StartTime            time.Time       `json:"start_time"`
	EndTime              time.Time       `json:"end_time"`
	Open                 bool            `json:"open"`
	CurrentHighestBid    decimal.Decimal `json:"current_highest_bid"`
	CurrentHighestBidder string          `json:"current_highest_bidder,omitempty"`
	Bids                 []Bid           `json:"bids"`
	Settlement           *Settlement     `json:"settlement,omitempty"`
}

// HasLeader reports whether at least one bid has been recorded.
func (a Auction) HasLeader() bool {
	return a.CurrentHighestBidder != ""
}

// Session binds an opaque bearer token to a user.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is no longer valid at now.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// BidEntry is a bid annotated with the bidder's display name
type BidEntry struct {
	Bid
	Username string `json:"username"`
}

// AuctionDetails is the display projection of an auction. History is newest first.
type AuctionDetails struct {
	Auction    Auction    `json:"auction"`
	Item       Item       `json:"item"`
	SellerName string     `json:"seller_name"`
	LeaderName string     `json:"leader_name,omitempty"`
	Status     string     `json:"status"`
	History    []BidEntry `json:"history"`
}
