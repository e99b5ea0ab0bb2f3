package handler

import (
	"net/http"
	"time"

	"online-auction/services/bidding/helpers"
	"online-auction/utils"

	"github.com/gin-gonic/gin"
)

type AuctionHandler struct {
	lifecycle LifecycleServiceInterface
}

func NewAuctionHandler(lifecycle LifecycleServiceInterface) *AuctionHandler {
	return &AuctionHandler{lifecycle: lifecycle}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	sellerID, ok := helpers.Actor(c, "CreateAuctionHandler")
	if !ok {
		return
	}

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	a, err := h.lifecycle.CreateAuction(req.ItemID, sellerID, time.Duration(req.DurationMinutes)*time.Minute)
	if err != nil {
		helpers.HandleServiceError(c, "CreateAuctionHandler", "failed to create auction", err, map[string]any{
			"item_id":   req.ItemID,
			"seller_id": sellerID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAuctionResponse(a), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": a.AuctionID,
		"item_id":    a.ItemID,
		"end_time":   a.EndTime,
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	auctions := h.lifecycle.ListActiveAuctions()

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponses(auctions), "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{"count": len(auctions)})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	details, err := h.lifecycle.GetAuctionDetails(auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetAuctionHandler", "error retrieving auction", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionDetailsResponse(details), "auction retrieved successfully")
}

// CloseAuctionHandler handles POST /auctions/:auction_id/close
func (h *AuctionHandler) CloseAuctionHandler(c *gin.Context) {
	requesterID, ok := helpers.Actor(c, "CloseAuctionHandler")
	if !ok {
		return
	}
	auctionID := c.Param("auction_id")

	s, err := h.lifecycle.CloseAuction(auctionID, requesterID)
	if err != nil {
		helpers.HandleServiceError(c, "CloseAuctionHandler", "failed to close auction", err, map[string]any{
			"auction_id": auctionID,
			"user_id":    requesterID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewSettlementResponse(s), "auction closed successfully")
	helpers.LogSuccess("CloseAuctionHandler", "auction closed successfully", map[string]any{
		"auction_id": auctionID,
		"outcome":    string(s.Outcome),
	})
}
