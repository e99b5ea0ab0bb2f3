package helpers

import (
	"time"

	model "online-auction/internal/models"
)

// Request/Response DTOs
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateItemRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	StartingPrice float64 `json:"starting_price" binding:"gte=0"`
}

// DurationMinutes of zero selects the server default
type CreateAuctionRequest struct {
	ItemID          string `json:"item_id" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"gte=0"`
}

type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type UserResponse struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Balance  float64 `json:"balance"`
}

type SessionResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	ExpiresAt string `json:"expires_at"`
}

type ItemResponse struct {
	ItemID        string  `json:"item_id"`
	SellerID      string  `json:"seller_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	StartingPrice float64 `json:"starting_price"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	AuctionID string  `json:"auction_id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type AuctionResponse struct {
	AuctionID            string  `json:"auction_id"`
	ItemID               string  `json:"item_id"`
	SellerID             string  `json:"seller_id"`
	StartTime            string  `json:"start_time"`
	EndTime              string  `json:"end_time"`
	Open                 bool    `json:"open"`
	CurrentHighestBid    float64 `json:"current_highest_bid"`
	CurrentHighestBidder string  `json:"current_highest_bidder,omitempty"`
	BidCount             int     `json:"bid_count"`
}

type BidEntryResponse struct {
	BidResponse
	Username string `json:"username"`
}

type AuctionDetailsResponse struct {
	Auction    AuctionResponse    `json:"auction"`
	Item       ItemResponse       `json:"item"`
	SellerName string             `json:"seller_name"`
	LeaderName string             `json:"leader_name,omitempty"`
	Status     string             `json:"status"`
	History    []BidEntryResponse `json:"history"`
}

type SettlementResponse struct {
	AuctionID string  `json:"auction_id"`
	Outcome   string  `json:"outcome"`
	WinnerID  string  `json:"winner_id,omitempty"`
	SellerID  string  `json:"seller_id"`
	Amount    float64 `json:"amount"`
	ClosedAt  string  `json:"closed_at"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
		Balance:  u.Balance.InexactFloat64(),
	}
}

func NewSessionResponse(s model.Session) SessionResponse {
	return SessionResponse{
		Token:     s.Token,
		UserID:    s.UserID,
		ExpiresAt: formatTime(s.ExpiresAt),
	}
}

func NewItemResponse(i model.Item) ItemResponse {
	return ItemResponse{
		ItemID:        i.ItemID,
		SellerID:      i.SellerID,
		Name:          i.Name,
		Description:   i.Description,
		Category:      i.Category,
		StartingPrice: i.StartingPrice.InexactFloat64(),
	}
}

func NewBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		BidID:     b.BidID,
		AuctionID: b.AuctionID,
		UserID:    b.UserID,
		Amount:    b.Amount.InexactFloat64(),
		CreatedAt: formatTime(b.CreatedAt),
	}
}

func NewBidResponses(bids []model.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, NewBidResponse(b))
	}
	return out
}

func NewAuctionResponse(a model.Auction) AuctionResponse {
	return AuctionResponse{
		AuctionID:            a.AuctionID,
		ItemID:               a.ItemID,
		SellerID:             a.SellerID,
		StartTime:            formatTime(a.StartTime),
		EndTime:              formatTime(a.EndTime),
		Open:                 a.Open,
		CurrentHighestBid:    a.CurrentHighestBid.InexactFloat64(),
		CurrentHighestBidder: a.CurrentHighestBidder,
		BidCount:             len(a.Bids),
	}
}

func NewAuctionResponses(auctions []model.Auction) []AuctionResponse {
	out := make([]AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		out = append(out, NewAuctionResponse(a))
	}
	return out
}

func NewAuctionDetailsResponse(d model.AuctionDetails) AuctionDetailsResponse {
	history := make([]BidEntryResponse, 0, len(d.History))
	for _, e := range d.History {
		history = append(history, BidEntryResponse{BidResponse: NewBidResponse(e.Bid), Username: e.Username})
	}
	return AuctionDetailsResponse{
		Auction:    NewAuctionResponse(d.Auction),
		Item:       NewItemResponse(d.Item),
		SellerName: d.SellerName,
		LeaderName: d.LeaderName,
		Status:     d.Status,
		History:    history,
	}
}

func NewSettlementResponse(s model.Settlement) SettlementResponse {
	return SettlementResponse{
		AuctionID: s.AuctionID,
		Outcome:   string(s.Outcome),
		WinnerID:  s.WinnerID,
		SellerID:  s.SellerID,
		Amount:    s.Amount.InexactFloat64(),
		ClosedAt:  formatTime(s.ClosedAt),
	}
}
