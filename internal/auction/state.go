// Package auction holds the mutable per-auction record. All reads and writes
// go through the State lock, and every read path applies lazy expiry with the
// same rule: an auction is expired once now is strictly after its end time.
package auction

import (
	"sync"
	"time"

	"online-auction/internal/models"

	"github.com/shopspring/decimal"
)

// State guards one auction's mutable record
type State struct {
	mu  sync.Mutex
	rec Record
}

// Record is the auction data visible inside WithLock. It must not be
// retained after the callback returns.
type Record struct {
	id        string
	itemID    string
	sellerID  string
	startTime time.Time
	endTime   time.Time

	open          bool
	bids          []models.Bid
	highestBid    decimal.Decimal
	highestBidder string
	settlement    *models.Settlement
}

// New creates an open auction ending at start+duration.
func New(id, itemID, sellerID string, start time.Time, duration time.Duration) *State {
	return &State{
		rec: Record{
			id:         id,
			itemID:     itemID,
			sellerID:   sellerID,
			startTime:  start,
			endTime:    start.Add(duration),
			open:       true,
			highestBid: decimal.Zero,
		},
	}
}

// Identity fields are written once in New, so they are safe to read unlocked.

func (s *State) ID() string         { return s.rec.id }
func (s *State) ItemID() string     { return s.rec.itemID }
func (s *State) SellerID() string   { return s.rec.sellerID }
func (s *State) EndTime() time.Time { return s.rec.endTime }

// WithLock runs fn with exclusive access to the record
func (s *State) WithLock(fn func(r *Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.rec)
}

// IsActive applies lazy expiry and reports whether the auction accepts bids at now.
func (s *State) IsActive(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Active(now)
}

// Snapshot applies lazy expiry and returns a copy of the auction
func (s *State) Snapshot(now time.Time) models.Auction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Active(now)
	return s.rec.Snapshot()
}

func (r *Record) ID() string         { return r.id }
func (r *Record) ItemID() string     { return r.itemID }
func (r *Record) SellerID() string   { return r.sellerID }
func (r *Record) EndTime() time.Time { return r.endTime }
func (r *Record) Open() bool         { return r.open }

// Expired reports whether now is past the end time. Monotonic in now.
func (r *Record) Expired(now time.Time) bool {
	return now.After(r.endTime)
}

// Active flips an open auction to closed once it has expired and returns
// whether it is still open.
func (r *Record) Active(now time.Time) bool {
	if r.open && r.Expired(now) {
		r.open = false
	}
	return r.open
}

// Close marks the auction closed. Idempotent.
func (r *Record) Close() {
	r.open = false
}

func (r *Record) HighestBid() decimal.Decimal { return r.highestBid }
func (r *Record) HighestBidder() string       { return r.highestBidder }
func (r *Record) BidCount() int               { return len(r.bids) }

// Append records bid and advances the leader cache if bid is a new maximum.
// Ordering rules are enforced by the caller.
func (r *Record) Append(bid models.Bid) {
	r.bids = append(r.bids, bid)
	if r.highestBidder == "" || bid.Amount.GreaterThan(r.highestBid) {
		r.highestBid = bid.Amount
		r.highestBidder = bid.UserID
	}
}

func (r *Record) Settlement() *models.Settlement { return r.settlement }

// SetSettlement stores the close outcome
func (r *Record) SetSettlement(s models.Settlement) {
	r.settlement = &s
}

// Snapshot returns a deep copy of the record
func (r *Record) Snapshot() models.Auction {
	a := models.Auction{
		AuctionID:            r.id,
		ItemID:               r.itemID,
		SellerID:             r.sellerID,
		StartTime:            r.startTime,
		EndTime:              r.endTime,
		Open:                 r.open,
		CurrentHighestBid:    r.highestBid,
		CurrentHighestBidder: r.highestBidder,
		Bids:                 append([]models.Bid(nil), r.bids...),
	}
	if r.settlement != nil {
		s := *r.settlement
		a.Settlement = &s
	}
	return a
}
