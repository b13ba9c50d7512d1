package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recharge-store-backend/internal/api/handler"
	"github.com/recharge-store-backend/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	purchaseHandler *handler.PurchaseHandler,
	priceHandler *handler.PriceHandler,
	inventoryHandler *handler.InventoryHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account, balance and ledger operations
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.GET("/:id/balance", accountHandler.GetBalance)
			accounts.PUT("/:id/balance", accountHandler.SetBalance)
			accounts.POST("/:id/credits", accountHandler.Credit)
			accounts.GET("/:id/transactions", accountHandler.GetTransactions)
		}

		// Purchases and the review workflow
		v1.POST("/purchases", purchaseHandler.Create)
		v1.POST("/reviews/:id/transition", purchaseHandler.Transition)

		// Price configuration
		prices := v1.Group("/prices")
		{
			prices.GET("/:game", priceHandler.Get)
			prices.PUT("/:game", priceHandler.Put)
		}

		// Redemption code inventory
		inventoryGroup := v1.Group("/inventory")
		{
			inventoryGroup.POST("", inventoryHandler.Create)
			inventoryGroup.GET("/:game/:denomination", inventoryHandler.GetBucket)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
