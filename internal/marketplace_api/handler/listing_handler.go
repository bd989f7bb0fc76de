package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
)

// ListingHandler handles HTTP requests for the catalog and the listing lifecycle
type ListingHandler struct {
	listingService service.ListingService
	logger         *slog.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(logger *slog.Logger, listingService service.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		logger:         logger,
	}
}

// Search returns a page of available listings matching the query string filters
func (h *ListingHandler) Search(c *gin.Context) {
	var params SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Warn("Invalid search parameters", "error", err)
		RespondBadRequest(c, "Invalid search parameters")
		return
	}

	result, err := h.listingService.Search(c.Request.Context(), service.SearchQuery{
		Term:        params.Term,
		MinPrice:    params.MinPrice,
		MaxPrice:    params.MaxPrice,
		MinBedrooms: params.MinBedrooms,
		Page:        params.Page,
		PerPage:     params.PerPage,
	})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, mapListingsToResponse(result.Listings), result.Page, result.PerPage, result.Total)
}

// GetByID retrieves a listing by its ID, returning 404 if not found
func (h *ListingHandler) GetByID(c *gin.Context) {
	id, ok := uuidParam(c, "id", "listing ID")
	if !ok {
		return
	}

	l, err := h.listingService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapListingToResponse(l))
}

// ListMine returns every listing of the calling owner
func (h *ListingHandler) ListMine(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	listings, err := h.listingService.ListMine(c.Request.Context(), caller)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapListingsToResponse(listings))
}

// Publish creates a listing and charges the publish cost
func (h *ListingHandler) Publish(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req PublishListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.listingService.Publish(c.Request.Context(), caller, listing.Draft{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Area:        req.Area,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapListingResultToResponse(result))
}

// Deactivate hides a listing from the catalog
func (h *ListingHandler) Deactivate(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "listing ID")
	if !ok {
		return
	}

	result, err := h.listingService.Deactivate(c.Request.Context(), caller, id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapListingResultToResponse(result))
}

// Reactivate puts a listing back in the catalog and charges the reactivation cost
func (h *ListingHandler) Reactivate(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "listing ID")
	if !ok {
		return
	}

	result, err := h.listingService.Reactivate(c.Request.Context(), caller, id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapListingResultToResponse(result))
}
