package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
)

// AdminHandler handles the back-office dashboard endpoints
type AdminHandler struct {
	adminService service.AdminService
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(logger *slog.Logger, adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	stats, err := h.adminService.Stats(c.Request.Context(), caller)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, StatsResponse{
		TotalUsers:           stats.TotalUsers,
		TotalProperties:      stats.TotalProperties,
		PendingVerifications: stats.PendingVerifications,
		PendingPurchases:     stats.PendingPurchases,
	})
}

// Activity returns the platform-wide activity feed
func (h *AdminHandler) Activity(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var params LimitParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid limit")
		return
	}

	events, err := h.adminService.RecentActivity(c.Request.Context(), caller, params.Limit)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapActivityToResponse(events))
}
