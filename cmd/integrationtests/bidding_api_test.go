package integrationtests

import (
	"net/http"
	"testing"
	"time"

	"online-auction/services/bidding/helpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Full bid war from registration to settlement
func TestAuctionFlow(t *testing.T) {
	app := SetupTestApp(t)
	john := app.Join(t, "john_doe")
	alice := app.Join(t, "alice_smith")
	bob := app.Join(t, "bob_johnson")

	laptop := app.ListAuction(t, john, "MacBook Pro", 1200, 24*60)
	watch := app.ListAuction(t, john, "Rolex Submariner", 8000, 48*60)

	require.Equal(t, http.StatusCreated, app.Bid(t, alice, laptop, 1300))
	require.Equal(t, http.StatusCreated, app.Bid(t, bob, laptop, 1400))
	require.Equal(t, http.StatusConflict, app.Bid(t, bob, laptop, 1400))
	require.Equal(t, http.StatusCreated, app.Bid(t, alice, laptop, 1500))

	resp, w := app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+laptop+"/winning", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, alice.UserID, Data(t, resp)["user_id"])
	require.Equal(t, 1500.0, Data(t, resp)["amount"])

	resp, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+laptop, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := Data(t, resp)
	require.Equal(t, "Active", details["status"])
	require.Equal(t, "john_doe", details["seller_name"])
	require.Equal(t, "alice_smith", details["leader_name"])
	history := details["history"].([]any)
	require.Len(t, history, 3)
	require.Equal(t, 1500.0, history[0].(map[string]any)["amount"])

	// bidding does not reserve funds
	require.Equal(t, 2000.0, app.Balance(t, alice))

	resp, w = app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+laptop+"/close", bob.Token, nil)
	require.Equal(t, http.StatusForbidden, w.Code, "%v", resp)

	resp, w = app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+laptop+"/close", john.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, "%v", resp)
	require.Equal(t, "settled", Data(t, resp)["outcome"])
	require.Equal(t, 1500.0, Data(t, resp)["amount"])

	require.Equal(t, 3500.0, app.Balance(t, john))
	require.Equal(t, 500.0, app.Balance(t, alice))
	require.Equal(t, 2000.0, app.Balance(t, bob))
	require.True(t, decimal.NewFromInt(6000).Equal(app.Ledger.Total()))

	// repeated close is a no-op
	_, w = app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+laptop+"/close", john.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 3500.0, app.Balance(t, john))

	require.Equal(t, http.StatusConflict, app.Bid(t, bob, laptop, 1600))

	resp, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	active := resp["data"].([]any)
	require.Len(t, active, 1)
	require.Equal(t, watch, active[0].(map[string]any)["auction_id"])

	resp, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/users/"+alice.UserID+"/auctions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)

	resp, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/users/"+john.UserID+"/items", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 2)
}

func TestPlaceBid_Rules(t *testing.T) {
	tests := []struct {
		name       string
		bidder     string
		amount     float64
		advance    time.Duration
		wantStatus int
	}{
		{name: "Valid_Bid", bidder: "alice", amount: 150, wantStatus: http.StatusCreated},
		{name: "At_Starting_Price", bidder: "alice", amount: 100, wantStatus: http.StatusConflict},
		{name: "Self_Bid", bidder: "seller", amount: 150, wantStatus: http.StatusForbidden},
		{name: "Over_Balance", bidder: "alice", amount: 2500, wantStatus: http.StatusPaymentRequired},
		{name: "At_End_Time", bidder: "alice", amount: 150, advance: time.Hour, wantStatus: http.StatusCreated},
		{name: "After_End_Time", bidder: "alice", amount: 150, advance: time.Hour + time.Second, wantStatus: http.StatusConflict},
		{name: "No_Session", bidder: "", amount: 150, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := SetupTestApp(t)
			members := map[string]Member{
				"seller": app.Join(t, "seller"),
				"alice":  app.Join(t, "alice"),
				"":       {},
			}
			auctionID := app.ListAuction(t, members["seller"], "Camera", 100, 60)
			app.Clock.Advance(tt.advance)

			require.Equal(t, tt.wantStatus, app.Bid(t, members[tt.bidder], auctionID, tt.amount))
		})
	}
}

func TestPlaceBid_InvalidPayload(t *testing.T) {
	app := SetupTestApp(t)
	seller := app.Join(t, "seller")
	alice := app.Join(t, "alice")
	auctionID := app.ListAuction(t, seller, "Camera", 100, 60)

	_, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/bids", alice.Token, []byte("{amount: 'missing quotes'}"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	_, w = app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/missing/bids", alice.Token, helpers.PlaceBidRequest{Amount: 10})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBidsByAuction(t *testing.T) {
	app := SetupTestApp(t)
	seller := app.Join(t, "seller")
	alice := app.Join(t, "alice")
	auctionID := app.ListAuction(t, seller, "Camera", 100, 60)

	resp, w := app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID+"/bids", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 0)

	_, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID+"/winning", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, app.Bid(t, alice, auctionID, 110))
	require.Equal(t, http.StatusCreated, app.Bid(t, alice, auctionID, 120))

	resp, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID+"/bids", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	bids := resp["data"].([]any)
	require.Len(t, bids, 2)
	require.Equal(t, 110.0, bids[0].(map[string]any)["amount"])
	_, err := time.Parse(time.RFC3339, bids[0].(map[string]any)["created_at"].(string))
	require.NoError(t, err)

	_, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/missing/bids", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettlementFailure(t *testing.T) {
	app := SetupTestApp(t)
	seller := app.Join(t, "seller")
	alice := app.Join(t, "alice")
	auctionID := app.ListAuction(t, seller, "Camera", 100, 60)

	require.Equal(t, http.StatusCreated, app.Bid(t, alice, auctionID, 1500))
	require.NoError(t, app.Ledger.Debit(alice.UserID, decimal.NewFromInt(1000)))

	resp, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/close", seller.Token, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "settlement failed", resp["message"])
	require.Equal(t, 1000.0, app.Balance(t, alice))
	require.Equal(t, 2000.0, app.Balance(t, seller))

	require.Equal(t, http.StatusConflict, app.Bid(t, alice, auctionID, 1600), "auction stays closed")
}

func TestSessions(t *testing.T) {
	app := SetupTestApp(t)
	alice := app.Join(t, "alice")
	bob := app.Join(t, "bob")

	resp, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/users", "", helpers.RegisterUserRequest{
		Username: "alice", Email: "other@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusConflict, w.Code, "%v", resp)

	_, w = app.ExecuteRequestAndParse(t, http.MethodPost, "/sessions", "", helpers.LoginRequest{Email: "alice@example.com", Password: "wrongpass"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	_, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/users/"+bob.UserID, alice.Token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	_, w = app.ExecuteRequestAndParse(t, http.MethodDelete, "/sessions", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/users/"+alice.UserID, alice.Token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code, "revoked token")

	app.Clock.Advance(3 * time.Hour)
	_, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/users/"+bob.UserID, bob.Token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code, "expired token")
}
