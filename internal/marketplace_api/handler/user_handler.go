package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asc-rental-marketplace/internal/domain/user"
	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
)

// UserHandler handles HTTP requests for registration and the caller's own data
type UserHandler struct {
	profileService service.ProfileService
	logger         *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *slog.Logger, profileService service.ProfileService) *UserHandler {
	return &UserHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// Register creates the user and role profile for a freshly signed-up identity
func (h *UserHandler) Register(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.profileService.Register(c.Request.Context(), caller, user.Registration{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapProfileToResponse(&service.Profile{User: u}))
}

// GetMe returns the caller's profile
func (h *UserHandler) GetMe(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetMe(c.Request.Context(), caller)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapProfileToResponse(profile))
}

// UpdateMe applies a partial profile update
func (h *UserHandler) UpdateMe(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), caller, user.ProfileUpdate{
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapProfileToResponse(profile))
}

// Ledger returns the calling owner's coin history, newest first
func (h *UserHandler) Ledger(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Warn("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	page, err := h.profileService.LedgerFor(c.Request.Context(), caller, pagination.Page, pagination.PerPage)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	entries := make([]LedgerEntryResponse, 0, len(page.Entries))
	for _, e := range page.Entries {
		entries = append(entries, mapEntryToResponse(e))
	}
	RespondWithPaginatedData(c, http.StatusOK, entries, page.Page, page.PerPage, page.Total)
}

// Activity returns the calling owner's projected activity feed
func (h *UserHandler) Activity(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var params LimitParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid limit")
		return
	}

	events, err := h.profileService.ActivityFor(c.Request.Context(), caller, params.Limit)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapActivityToResponse(events))
}
