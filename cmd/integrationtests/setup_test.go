package integrationtests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	accounts "online-auction/internal/accountService"
	bidding "online-auction/internal/biddingService"
	"online-auction/internal/clock"
	"online-auction/internal/config"
	"online-auction/internal/ledger"
	"online-auction/internal/repository"
	"online-auction/internal/server"
	"online-auction/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var epoch = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

// TestApp is the full HTTP stack over in-memory stores and a manual clock
type TestApp struct {
	Router *gin.Engine
	Clock  *clock.Manual
	Ledger *ledger.MemoryLedger
}

// SetupTestApp wires every service behind the real router
func SetupTestApp(t *testing.T) *TestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	l := ledger.NewMemoryLedger()
	clk := clock.NewManual(epoch)

	acc := accounts.NewAccountService(repo, repository.NewMemorySessionStore(), l, clk, config.AccountsConfig{
		DefaultBalance: decimal.NewFromInt(2000),
		SessionTTL:     2 * time.Hour,
		HashCost:       bcrypt.MinCost,
	})
	router := server.SetupRouter(server.Services{
		Bidding: bidding.NewBiddingService(repo, repo, l, clk),
		Lifecycle: bidding.NewAuctionLifecycle(repo, repo, l, clk, config.AuctionConfig{
			DefaultDuration: 24 * time.Hour,
			MaxDuration:     72 * time.Hour,
		}),
		Accounts: acc,
		Auth:     acc,
	})
	return &TestApp{Router: router, Clock: clk, Ledger: l}
}

// ExecuteRequestAndParse executes an HTTP request on the app router and parses the envelope
func (a *TestApp) ExecuteRequestAndParse(t *testing.T, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	a.Router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Data returns the envelope's data object
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return data
}

// Member is a registered, logged-in user
type Member struct {
	UserID string
	Token  string
}

// Join registers username and logs in
func (a *TestApp) Join(t *testing.T, username string) Member {
	t.Helper()
	email := username + "@example.com"
	resp, w := a.ExecuteRequestAndParse(t, http.MethodPost, "/users", "", helpers.RegisterUserRequest{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %v", username, resp)
	userID := Data(t, resp)["user_id"].(string)

	resp, w = a.ExecuteRequestAndParse(t, http.MethodPost, "/sessions", "", helpers.LoginRequest{Email: email, Password: "password123"})
	require.Equal(t, http.StatusCreated, w.Code, "login %s: %v", username, resp)
	return Member{UserID: userID, Token: Data(t, resp)["token"].(string)}
}

// ListAuction creates an item owned by seller and opens an auction on it
func (a *TestApp) ListAuction(t *testing.T, seller Member, name string, startingPrice float64, minutes int) string {
	t.Helper()
	resp, w := a.ExecuteRequestAndParse(t, http.MethodPost, "/items", seller.Token, helpers.CreateItemRequest{
		Name:          name,
		Category:      "Electronics",
		StartingPrice: startingPrice,
	})
	require.Equal(t, http.StatusCreated, w.Code, "create item: %v", resp)
	itemID := Data(t, resp)["item_id"].(string)

	resp, w = a.ExecuteRequestAndParse(t, http.MethodPost, "/auctions", seller.Token, helpers.CreateAuctionRequest{
		ItemID:          itemID,
		DurationMinutes: minutes,
	})
	require.Equal(t, http.StatusCreated, w.Code, "create auction: %v", resp)
	return Data(t, resp)["auction_id"].(string)
}

// Bid places amount on auctionID as bidder and returns the status code
func (a *TestApp) Bid(t *testing.T, bidder Member, auctionID string, amount float64) int {
	t.Helper()
	_, w := a.ExecuteRequestAndParse(t, http.MethodPost, fmt.Sprintf("/auctions/%s/bids", auctionID), bidder.Token, helpers.PlaceBidRequest{Amount: amount})
	return w.Code
}

// Balance reads member's balance through the profile endpoint
func (a *TestApp) Balance(t *testing.T, member Member) float64 {
	t.Helper()
	resp, w := a.ExecuteRequestAndParse(t, http.MethodGet, "/users/"+member.UserID, member.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, "get user: %v", resp)
	return Data(t, resp)["balance"].(float64)
}
