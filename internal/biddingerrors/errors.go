package biddingerrors

import (
	"errors"
	"fmt"
)

// Error kinds
var (
	ErrNotFound          = errors.New("not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Repository-level errors
var (
	ErrAuctionNotFound = fmt.Errorf("auction %w", ErrNotFound)
	ErrItemNotFound    = fmt.Errorf("item %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrNoBids          = errors.New("no bids found for auction")
	ErrUserNoBids      = errors.New("user has not placed any bids")
	ErrUserExists      = errors.New("username or email already exists")
)

// business logic errors
var (
	ErrInvalidBid       = errors.New("invalid bid")
	ErrInvalidAuction   = errors.New("invalid auction")
	ErrInvalidItem      = errors.New("invalid item")
	ErrInvalidUser      = errors.New("invalid user")
	ErrInvalidTransfer  = errors.New("invalid transfer")
	ErrBidTooLow        = errors.New("bid amount too low")
	ErrSelfBid          = errors.New("cannot bid on your own auction")
	ErrAuctionEnded     = errors.New("auction has ended")
	ErrAuctionClosed    = fmt.Errorf("auction is closed: %w", ErrAuctionEnded)
	ErrSettlementFailed = fmt.Errorf("settlement failed: %w", ErrInsufficientFunds)
)

// authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)
