package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
)

// FavoriteHandler handles HTTP requests for a client's saved listings
type FavoriteHandler struct {
	favoriteService service.FavoriteService
	logger          *slog.Logger
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(logger *slog.Logger, favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// Toggle saves or unsaves a listing for the calling client
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	propertyID, ok := uuidParam(c, "propertyId", "property ID")
	if !ok {
		return
	}

	favorited, err := h.favoriteService.Toggle(c.Request.Context(), caller, propertyID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, ToggleFavoriteResponse{PropertyID: propertyID.String(), Favorited: favorited})
}

// List returns the calling client's saved listings
func (h *FavoriteHandler) List(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	listings, err := h.favoriteService.ListMine(c.Request.Context(), caller)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapListingsToResponse(listings))
}
