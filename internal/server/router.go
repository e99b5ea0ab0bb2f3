package server

import (
	handler "online-auction/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// Services groups what the HTTP layer depends on
type Services struct {
	Bidding   handler.BiddingServiceInterface
	Lifecycle handler.LifecycleServiceInterface
	Accounts  handler.AccountServiceInterface
	Auth      Authenticator
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svc Services) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(svc.Bidding)
	auctionHandler := handler.NewAuctionHandler(svc.Lifecycle)
	accountHandler := handler.NewAccountHandler(svc.Accounts)
	requireAuth := AuthMiddleware(svc.Auth)

	sessions := router.Group("/sessions")
	{
		sessions.POST("", accountHandler.LoginHandler)
		sessions.DELETE("", requireAuth, accountHandler.LogoutHandler)
	}

	users := router.Group("/users")
	{
		users.POST("", accountHandler.RegisterHandler)
		users.GET("/:user_id", requireAuth, accountHandler.GetUserHandler)
		users.GET("/:user_id/items", accountHandler.GetItemsBySellerHandler)
		users.GET("/:user_id/auctions", biddingHandler.GetAuctionsByUserHandler)
	}

	items := router.Group("/items")
	{
		items.POST("", requireAuth, accountHandler.CreateItemHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.POST("", requireAuth, auctionHandler.CreateAuctionHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/close", requireAuth, auctionHandler.CloseAuctionHandler)
		auctions.POST("/:auction_id/bids", requireAuth, biddingHandler.PlaceBidHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsByAuctionHandler)
		auctions.GET("/:auction_id/winning", biddingHandler.GetWinningBidHandler)
	}

	return router
}
