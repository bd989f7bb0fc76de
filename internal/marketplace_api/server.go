package marketplace_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asc-rental-marketplace/internal/config"
	"github.com/asc-rental-marketplace/internal/marketplace_api/handler"
	"github.com/asc-rental-marketplace/internal/marketplace_api/middleware"
	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
)

// Services bundles everything the HTTP layer calls into
type Services struct {
	Listings      service.ListingService
	Packages      service.PackageService
	Purchases     service.PurchaseService
	Verifications service.VerificationService
	Profiles      service.ProfileService
	Favorites     service.FavoriteService
	Conversations service.ConversationService
	Admin         service.AdminService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	services Services,
	verifier middleware.TokenVerifier,
	counter middleware.WindowCounter,
) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	handlers := routeHandlers{
		listings:      handler.NewListingHandler(log, services.Listings),
		purchases:     handler.NewPurchaseHandler(log, services.Packages, services.Purchases),
		verifications: handler.NewVerificationHandler(log, services.Verifications),
		users:         handler.NewUserHandler(log, services.Profiles),
		favorites:     handler.NewFavoriteHandler(log, services.Favorites),
		conversations: handler.NewConversationHandler(log, services.Conversations),
		admin:         handler.NewAdminHandler(log, services.Admin),
	}

	setupRouter(log, httpRouter, &cfg.RateLimit, verifier, counter, handlers)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, waiting for in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}

// Handler exposes the configured router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}
