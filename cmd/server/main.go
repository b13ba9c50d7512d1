package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/api"
	"github.com/recharge-store-backend/internal/config"
	"github.com/recharge-store-backend/internal/data/postgres"
	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/logger"
	"github.com/recharge-store-backend/internal/platform/persistence"
	"github.com/recharge-store-backend/internal/provider"
	"github.com/recharge-store-backend/internal/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	tolerance, err := decimal.NewFromString(cfg.Store.PriceTolerance)
	if err != nil {
		log.Error("Invalid price tolerance", "value", cfg.Store.PriceTolerance, "error", err)
		os.Exit(1)
	}

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize provider clients for games with configured fallbacks
	providers := provider.NewRegistry(log, &cfg.Provider)

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	inventoryRepo := postgres.NewInventoryRepository(log, postgresDB)
	priceRepo := postgres.NewPriceRepository(log, postgresDB)

	// Initialize services
	adminLookup := service.NewEmailAdminLookup(accountRepo, cfg.Store.AdminEmail)
	accountService := service.NewAccountService(log, accountRepo)
	ledgerService := service.NewLedgerService(log, ledgerRepo, adminLookup, cfg.Store.LedgerRetention)
	balanceService := service.NewBalanceService(log, postgresDB, accountRepo, ledgerRepo, ledgerService)
	inventoryService := service.NewInventoryService(log, inventoryRepo)
	priceService := service.NewPriceService(log, postgresDB, priceRepo, cfg.Store.PriceCacheTTL)
	reviewService := service.NewReviewService(log, postgresDB, accountRepo, ledgerRepo, ledgerService)

	enabledGames := map[game.Type]bool{
		game.FreeFireLatam:  cfg.Games.FreeFireLatamEnabled,
		game.FreeFireGlobal: cfg.Games.FreeFireGlobalEnabled,
		game.BlockStriker:   cfg.Games.BlockStrikerEnabled,
	}

	purchaseService := service.NewPurchaseService(
		log,
		postgresDB,
		accountRepo,
		ledgerRepo,
		inventoryRepo,
		priceService,
		providers,
		ledgerService,
		enabledGames,
		cfg.Store.AdminEmail,
		tolerance,
	)

	// Wrap the purchase flow in a bounded worker pool
	pooledPurchases, err := service.NewWorkerPoolPurchaseService(
		purchaseService,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize REST server
	server := api.NewServer(
		log,
		cfg,
		accountService,
		balanceService,
		ledgerService,
		pooledPurchases,
		reviewService,
		priceService,
		inventoryService,
	)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new purchases arrive
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Drain the worker pool
	pooledPurchases.Shutdown()

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
