// Package demo seeds sample data and plays the three-user bidding scenario
// against live services.
package demo

import (
	"fmt"
	"io"
	"time"

	accounts "online-auction/internal/accountService"
	bidding "online-auction/internal/biddingService"
	"online-auction/internal/models"

	"github.com/shopspring/decimal"
)

type credentials struct {
	username string
	email    string
	password string
}

var (
	seller = credentials{"john_doe", "john@example.com", "password123"}
	alice  = credentials{"alice_smith", "alice@example.com", "securepass"}
	bob    = credentials{"bob_johnson", "bob@example.com", "bobpass123"}
)

// Fixtures is what Seed created
type Fixtures struct {
	Seller  models.User
	Alice   models.User
	Bob     models.User
	Laptop  models.Auction
	Watch   models.Auction
	Created []models.Item
}

// Seed registers the demo users and opens two auctions listed by the seller
func Seed(acc *accounts.AccountService, life *bidding.AuctionLifecycle) (Fixtures, error) {
	var f Fixtures
	var err error

	for _, u := range []struct {
		creds credentials
		dst   *models.User
	}{{seller, &f.Seller}, {alice, &f.Alice}, {bob, &f.Bob}} {
		if *u.dst, err = acc.RegisterUser(u.creds.username, u.creds.email, u.creds.password); err != nil {
			return Fixtures{}, fmt.Errorf("demo: register %s: %w", u.creds.username, err)
		}
	}

	laptop, err := acc.CreateItem(f.Seller.UserID, "MacBook Pro", "Latest model with M2 chip", "Electronics", decimal.NewFromInt(1200))
	if err != nil {
		return Fixtures{}, fmt.Errorf("demo: create laptop: %w", err)
	}
	watch, err := acc.CreateItem(f.Seller.UserID, "Rolex Submariner", "Luxury watch in excellent condition", "Accessories", decimal.NewFromInt(8000))
	if err != nil {
		return Fixtures{}, fmt.Errorf("demo: create watch: %w", err)
	}
	f.Created = []models.Item{laptop, watch}

	if f.Laptop, err = life.CreateAuction(laptop.ItemID, f.Seller.UserID, 24*time.Hour); err != nil {
		return Fixtures{}, fmt.Errorf("demo: open laptop auction: %w", err)
	}
	if f.Watch, err = life.CreateAuction(watch.ItemID, f.Seller.UserID, 48*time.Hour); err != nil {
		return Fixtures{}, fmt.Errorf("demo: open watch auction: %w", err)
	}
	return f, nil
}

// Run seeds the services and plays the bid war on the laptop auction,
// writing a transcript to w. Rejected bids are reported, not fatal.
func Run(w io.Writer, acc *accounts.AccountService, life *bidding.AuctionLifecycle, engine *bidding.BiddingService) error {
	f, err := Seed(acc, life)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== Users Created ===")
	for _, u := range []models.User{f.Seller, f.Alice, f.Bob} {
		fmt.Fprintf(w, "%s <%s> balance=%s\n", u.Username, u.Email, u.Balance.StringFixed(2))
	}
	fmt.Fprintln(w, "\n=== Auctions Created ===")
	for i, a := range []models.Auction{f.Laptop, f.Watch} {
		fmt.Fprintf(w, "%s (%s) ends %s\n", f.Created[i].Name, a.AuctionID, a.EndTime.Format(time.RFC3339))
	}

	steps := []struct {
		who    credentials
		amount int64
	}{{alice, 1300}, {bob, 1400}, {alice, 1500}}

	fmt.Fprintln(w, "\n=== Bids ===")
	for _, step := range steps {
		session, err := acc.Login(step.who.email, step.who.password)
		if err != nil {
			return fmt.Errorf("demo: login %s: %w", step.who.username, err)
		}
		bid, err := engine.PlaceBid(f.Laptop.AuctionID, session.UserID, decimal.NewFromInt(step.amount))
		if err != nil {
			fmt.Fprintf(w, "%s bid %d rejected: %v\n", step.who.username, step.amount, err)
		} else {
			fmt.Fprintf(w, "%s bid %s\n", step.who.username, bid.Amount.StringFixed(2))
		}
		if err := acc.Logout(session.Token); err != nil {
			return fmt.Errorf("demo: logout %s: %w", step.who.username, err)
		}
	}

	details, err := life.GetAuctionDetails(f.Laptop.AuctionID)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\n--- Laptop Auction Details ---")
	fmt.Fprintf(w, "Item: %s\nSeller: %s\nStatus: %s\nCurrent bid: %s\n",
		details.Item.Name, details.SellerName, details.Status, details.Auction.CurrentHighestBid.StringFixed(2))
	if details.LeaderName != "" {
		fmt.Fprintf(w, "Leader: %s\n", details.LeaderName)
	}
	for _, e := range details.History {
		fmt.Fprintf(w, "  %s: %s at %s\n", e.Username, e.Amount.StringFixed(2), e.CreatedAt.Format(time.RFC3339))
	}

	settlement, err := life.CloseAuction(f.Laptop.AuctionID, f.Seller.UserID)
	if err != nil {
		fmt.Fprintf(w, "\nclosing laptop auction: %v\n", err)
	} else {
		fmt.Fprintf(w, "\nLaptop auction closed: %s\n", settlement.Outcome)
	}

	fmt.Fprintln(w, "\n=== Updated Balances ===")
	for _, u := range []models.User{f.Seller, f.Alice, f.Bob} {
		cur, err := acc.GetUser(u.UserID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s\n", cur.Username, cur.Balance.StringFixed(2))
	}

	fmt.Fprintln(w, "\n=== Active Auctions ===")
	for _, a := range life.ListActiveAuctions() {
		item, err := acc.GetItem(a.ItemID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s - Current bid: %s\n", item.Name, a.CurrentHighestBid.StringFixed(2))
	}
	return nil
}
