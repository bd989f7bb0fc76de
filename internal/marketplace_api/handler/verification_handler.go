package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
)

// VerificationHandler handles HTTP requests for owner identity verification
type VerificationHandler struct {
	verificationService service.VerificationService
	logger              *slog.Logger
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(logger *slog.Logger, verificationService service.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		logger:              logger,
	}
}

// Submit moves the calling owner to PENDING verification
func (h *VerificationHandler) Submit(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req SubmitVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	o, err := h.verificationService.Submit(c.Request.Context(), caller, owner.VerificationSubmission{
		PhoneNumber: req.PhoneNumber,
		DocumentURL: req.DocumentURL,
		SelfieURL:   req.SelfieURL,
	})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapOwnerToResponse(o))
}

// ListPending returns owners awaiting verification review
func (h *VerificationHandler) ListPending(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	owners, err := h.verificationService.ListPending(c.Request.Context(), caller)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	response := make([]OwnerResponse, 0, len(owners))
	for _, o := range owners {
		response = append(response, mapOwnerToResponse(o))
	}
	RespondOK(c, response)
}

// Confirm marks a PENDING owner as VERIFIED
func (h *VerificationHandler) Confirm(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	o, err := h.verificationService.Confirm(c.Request.Context(), caller, c.Param("ownerId"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapOwnerToResponse(o))
}
