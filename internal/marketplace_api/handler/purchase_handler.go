package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
)

// PurchaseHandler handles HTTP requests for coin packages and purchases
type PurchaseHandler struct {
	packageService  service.PackageService
	purchaseService service.PurchaseService
	logger          *slog.Logger
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(logger *slog.Logger, packageService service.PackageService, purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		packageService:  packageService,
		purchaseService: purchaseService,
		logger:          logger,
	}
}

// ListPackages returns the coin package catalog
func (h *PurchaseHandler) ListPackages(c *gin.Context) {
	packages, err := h.packageService.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	response := make([]PackageResponse, 0, len(packages))
	for _, p := range packages {
		response = append(response, mapPackageToResponse(p))
	}
	RespondOK(c, response)
}

// Initiate records a PENDING purchase for the calling owner
func (h *PurchaseHandler) Initiate(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req InitiatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.purchaseService.Initiate(c.Request.Context(), caller, purchase.Request{
		PackageID:         req.PackageID,
		ProofOfPaymentURL: req.ProofOfPaymentURL,
	})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapPurchaseToResponse(p))
}

// ListMine returns the caller's purchases
func (h *PurchaseHandler) ListMine(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	purchases, err := h.purchaseService.ListMine(c.Request.Context(), caller)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapPurchasesToResponse(purchases))
}

// ListPending returns purchases awaiting admin confirmation
func (h *PurchaseHandler) ListPending(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	purchases, err := h.purchaseService.ListPending(c.Request.Context(), caller)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapPurchasesToResponse(purchases))
}

// Confirm credits the package coins to the purchasing owner
func (h *PurchaseHandler) Confirm(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "purchase ID")
	if !ok {
		return
	}

	confirmation, err := h.purchaseService.Confirm(c.Request.Context(), caller, id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, PurchaseConfirmationResponse{
		Purchase:    mapPurchaseToResponse(confirmation.Purchase),
		Credited:    confirmation.Credited,
		LedgerEntry: mapEntryToResponse(confirmation.Entry),
	})
}
