package main

import (
	accounts "online-auction/internal/accountService"
	bidding "online-auction/internal/biddingService"
	"online-auction/internal/clock"
	"online-auction/internal/config"
	"online-auction/internal/demo"
	"online-auction/internal/ledger"
	"online-auction/internal/repository"
	"online-auction/internal/server"
	"online-auction/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	utils.SetLevel(cfg.LogLevel)

	repo := repository.NewMemoryRepo()
	sessions := repository.NewMemorySessionStore()
	l := ledger.NewMemoryLedger()
	clk := clock.New()

	accountSvc := accounts.NewAccountService(repo, sessions, l, clk, cfg.Accounts)
	biddingSvc := bidding.NewBiddingService(repo, repo, l, clk)
	lifecycle := bidding.NewAuctionLifecycle(repo, repo, l, clk, cfg.Auction)

	if cfg.SeedDemo {
		prepopulate(accountSvc, lifecycle)
	}

	router := server.SetupRouter(server.Services{
		Bidding:   biddingSvc,
		Lifecycle: lifecycle,
		Accounts:  accountSvc,
		Auth:      accountSvc,
	})

	utils.Info("starting auction server", map[string]any{"addr": cfg.Addr()})
	if err := router.Run(cfg.Addr()); err != nil {
		utils.Fatal("failed to start server", map[string]any{"error": err.Error()})
	}
}

// prepopulate adds the demo users, items and auctions to the in-memory stores
func prepopulate(acc *accounts.AccountService, lifecycle *bidding.AuctionLifecycle) {
	f, err := demo.Seed(acc, lifecycle)
	if err != nil {
		utils.Warn("failed to seed demo data", map[string]any{"error": err.Error()})
		return
	}
	utils.Info("seeded demo data", map[string]any{
		"seller_id":         f.Seller.UserID,
		"laptop_auction_id": f.Laptop.AuctionID,
		"watch_auction_id":  f.Watch.AuctionID,
	})
}
