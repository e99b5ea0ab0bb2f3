package handler

import (
	"net/http"

	"online-auction/internal/biddingerrors"
	"online-auction/services/bidding/helpers"
	"online-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AccountHandler struct {
	accounts AccountServiceInterface
}

func NewAccountHandler(accounts AccountServiceInterface) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterHandler handles POST /users
func (h *AccountHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, err := h.accounts.RegisterUser(req.Username, req.Email, req.Password)
	if err != nil {
		helpers.HandleServiceError(c, "RegisterHandler", "failed to register user", err, map[string]any{"username": req.Username})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewUserResponse(user), "user registered successfully")
	helpers.LogSuccess("RegisterHandler", "user registered successfully", map[string]any{"user_id": user.UserID})
}

// LoginHandler handles POST /sessions
func (h *AccountHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	session, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		helpers.HandleServiceError(c, "LoginHandler", "login failed", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewSessionResponse(session), "logged in successfully")
	helpers.LogSuccess("LoginHandler", "session issued", map[string]any{"user_id": session.UserID})
}

// LogoutHandler handles DELETE /sessions
func (h *AccountHandler) LogoutHandler(c *gin.Context) {
	userID, ok := helpers.Actor(c, "LogoutHandler")
	if !ok {
		return
	}

	if err := h.accounts.Logout(c.GetString(helpers.TokenKey)); err != nil {
		helpers.HandleServiceError(c, "LogoutHandler", "logout failed", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "logged out successfully")
	helpers.LogSuccess("LogoutHandler", "session revoked", map[string]any{"user_id": userID})
}

// GetUserHandler handles GET /users/:user_id. Balances are only shown to their owner.
func (h *AccountHandler) GetUserHandler(c *gin.Context) {
	actor, ok := helpers.Actor(c, "GetUserHandler")
	if !ok {
		return
	}
	userID := c.Param("user_id")
	if userID != actor {
		helpers.HandleServiceError(c, "GetUserHandler", "foreign profile requested", biddingerrors.ErrNotAuthorized, map[string]any{
			"user_id": userID,
			"actor":   actor,
		})
		return
	}

	user, err := h.accounts.GetUser(userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetUserHandler", "error retrieving user", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewUserResponse(user), "user retrieved successfully")
}

// CreateItemHandler handles POST /items
func (h *AccountHandler) CreateItemHandler(c *gin.Context) {
	sellerID, ok := helpers.Actor(c, "CreateItemHandler")
	if !ok {
		return
	}

	var req helpers.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateItemHandler", err)
		return
	}

	item, err := h.accounts.CreateItem(sellerID, req.Name, req.Description, req.Category, decimal.NewFromFloat(req.StartingPrice))
	if err != nil {
		helpers.HandleServiceError(c, "CreateItemHandler", "failed to create item", err, map[string]any{"seller_id": sellerID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewItemResponse(item), "item created successfully")
	helpers.LogSuccess("CreateItemHandler", "item created successfully", map[string]any{
		"item_id":   item.ItemID,
		"seller_id": sellerID,
	})
}

// GetItemsBySellerHandler handles GET /users/:user_id/items
func (h *AccountHandler) GetItemsBySellerHandler(c *gin.Context) {
	sellerID := c.Param("user_id")
	items, err := h.accounts.GetItemsBySeller(sellerID)
	if err != nil {
		helpers.HandleServiceError(c, "GetItemsBySellerHandler", "error retrieving items", err, map[string]any{"seller_id": sellerID})
		return
	}

	out := make([]helpers.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, helpers.NewItemResponse(it))
	}
	utils.JSONResponse(c, http.StatusOK, out, "items retrieved successfully")
	helpers.LogSuccess("GetItemsBySellerHandler", "items retrieved successfully", map[string]any{
		"seller_id":   sellerID,
		"items_count": len(items),
	})
}
