package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asc-rental-marketplace/internal/config"
	"github.com/asc-rental-marketplace/internal/data/cache"
	"github.com/asc-rental-marketplace/internal/data/mongo"
	"github.com/asc-rental-marketplace/internal/data/postgres"
	"github.com/asc-rental-marketplace/internal/logger"
	"github.com/asc-rental-marketplace/internal/marketplace_api"
	"github.com/asc-rental-marketplace/internal/marketplace_api/middleware"
	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
	"github.com/asc-rental-marketplace/internal/platform/auth"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
	"github.com/asc-rental-marketplace/internal/workflow"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("marketplace_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Marketplace API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	if err := persistence.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
		log.Error("Failed to apply PostgreSQL migrations", "error", err)
		os.Exit(1)
	}

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	redisClient, err := persistence.NewRedisClient(appCtx, log, &cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize Redis", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	stores := workflow.Stores{
		Accounts:      postgres.NewAccountRepository(log, postgresDB),
		Ledger:        postgres.NewLedgerRepository(log, postgresDB),
		Listings:      postgres.NewListingRepository(log, postgresDB),
		Owners:        postgres.NewOwnerRepository(log, postgresDB),
		Users:         postgres.NewUserRepository(log, postgresDB),
		Purchases:     postgres.NewPurchaseRepository(log, postgresDB),
		Packages:      postgres.NewPackageRepository(log, postgresDB),
		Favorites:     postgres.NewFavoriteRepository(log, postgresDB),
		Conversations: postgres.NewConversationRepository(log, postgresDB),
		Outbox:        postgres.NewOutboxRepository(log, postgresDB),
	}
	activityRepo := mongo.NewActivityRepository(log, mongoDB.Database())
	packageCache := cache.NewPackageCache(log, stores.Packages, cache.NewRedisCache(redisClient), cfg.Redis.CacheTTL)
	// The migrations above may have re-seeded coin_packages
	packageCache.Invalidate(appCtx)

	engine := workflow.NewEngine(
		workflow.NewPostgresTxRunner(postgresDB, stores, log),
		workflow.Options{AllowReverification: cfg.Marketplace.AllowReverification},
		nil,
		log.With("component", "workflow"),
	)

	// Initialize services
	paging := service.Paging{
		DefaultSize: cfg.Marketplace.DefaultPageSize,
		MaxSize:     cfg.Marketplace.MaxPageSize,
	}
	services := marketplace_api.Services{
		Listings:      service.NewListingService(stores.Listings, engine, paging),
		Packages:      service.NewPackageService(packageCache),
		Purchases:     service.NewPurchaseService(stores.Purchases, engine),
		Verifications: service.NewVerificationService(stores.Owners, engine),
		Profiles: service.NewProfileService(service.ProfileDeps{
			Users:     stores.Users,
			Owners:    stores.Owners,
			Accounts:  stores.Accounts,
			Ledger:    stores.Ledger,
			Favorites: stores.Favorites,
			Activity:  activityRepo,
		}, engine, paging, cfg.Marketplace.ActivityFeedLimit),
		Favorites:     service.NewFavoriteService(stores.Favorites, stores.Listings, engine),
		Conversations: service.NewConversationService(stores.Conversations, engine),
		Admin: service.NewAdminService(service.AdminDeps{
			Users:     stores.Users,
			Listings:  stores.Listings,
			Owners:    stores.Owners,
			Purchases: stores.Purchases,
			Activity:  activityRepo,
		}, cfg.Marketplace.ActivityFeedLimit),
	}

	server := marketplace_api.NewServer(
		log,
		cfg,
		services,
		auth.NewTokenManager(&cfg.Auth),
		middleware.NewRedisWindowCounter(redisClient),
	)
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before the pools they use go away
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	postgresDB.Close()

	if err = redisClient.Close(); err != nil {
		log.Error("Error closing Redis connection", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
