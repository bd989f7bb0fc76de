package marketplace_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asc-rental-marketplace/internal/config"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/marketplace_api/handler"
	"github.com/asc-rental-marketplace/internal/marketplace_api/middleware"
)

type routeHandlers struct {
	listings      *handler.ListingHandler
	purchases     *handler.PurchaseHandler
	verifications *handler.VerificationHandler
	users         *handler.UserHandler
	favorites     *handler.FavoriteHandler
	conversations *handler.ConversationHandler
	admin         *handler.AdminHandler
}

// setupRouter configures API routes and middleware for the application.
// Role checks here reject early; the services enforce the same rules again.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	limits *config.RateLimitConfig,
	verifier middleware.TokenVerifier,
	counter middleware.WindowCounter,
	h routeHandlers,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	authenticated := middleware.Authenticate(verifier)
	ownersOnly := middleware.RequireRole(shared.RoleOwner)
	clientsOnly := middleware.RequireRole(shared.RoleClient)
	adminsOnly := middleware.RequireRole(shared.RoleAdmin)

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(counter, "api", limits.MaxRequests, limits.Window, logger))
	{
		// Public catalog
		v1.GET("/listings", h.listings.Search)
		v1.GET("/listings/:id", h.listings.GetByID)
		v1.GET("/packages", h.purchases.ListPackages)

		v1.POST("/users/register",
			middleware.RateLimit(counter, "register", limits.MaxRegisterRequests, limits.RegisterWindow, logger),
			authenticated,
			h.users.Register,
		)

		secured := v1.Group("", authenticated)
		{
			me := secured.Group("/users/me")
			{
				me.GET("", h.users.GetMe)
				me.PUT("", h.users.UpdateMe)
				me.GET("/ledger", h.users.Ledger)
				me.GET("/activity", h.users.Activity)
			}

			// Listing lifecycle
			secured.POST("/listings", ownersOnly, h.listings.Publish)
			secured.GET("/owner/listings", ownersOnly, h.listings.ListMine)
			secured.PATCH("/listings/:id/deactivate", ownersOnly, h.listings.Deactivate)
			secured.PATCH("/listings/:id/reactivate", ownersOnly, h.listings.Reactivate)

			// Coins and verification
			secured.POST("/purchases", ownersOnly, h.purchases.Initiate)
			secured.GET("/purchases", h.purchases.ListMine)
			secured.POST("/verification", ownersOnly, h.verifications.Submit)

			favorites := secured.Group("/favorites", clientsOnly)
			{
				favorites.GET("", h.favorites.List)
				favorites.POST("/:propertyId/toggle", h.favorites.Toggle)
			}

			conversations := secured.Group("/conversations")
			{
				conversations.POST("", h.conversations.Open)
				conversations.GET("", h.conversations.List)
				conversations.GET("/:id/messages", h.conversations.Messages)
				conversations.POST("/:id/messages", h.conversations.Send)
				conversations.POST("/:id/read", h.conversations.MarkRead)
			}

			admin := secured.Group("/admin", adminsOnly)
			{
				admin.GET("/stats", h.admin.Stats)
				admin.GET("/activity", h.admin.Activity)
				admin.GET("/purchases/pending", h.purchases.ListPending)
				admin.POST("/purchases/:id/confirm", h.purchases.Confirm)
				admin.GET("/verifications/pending", h.verifications.ListPending)
				admin.POST("/verifications/:ownerId/confirm", h.verifications.Confirm)
			}
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
