package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
)

// ConversationHandler handles HTTP requests for messaging about listings
type ConversationHandler struct {
	conversationService service.ConversationService
	logger              *slog.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(logger *slog.Logger, conversationService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		logger:              logger,
	}
}

// Open returns the caller's conversation about a listing, creating it on first contact.
// A new conversation answers 201, an existing one 200.
func (h *ConversationHandler) Open(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req OpenConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		RespondBadRequest(c, "Invalid property ID")
		return
	}

	conv, created, err := h.conversationService.Open(c.Request.Context(), caller, propertyID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	RespondWithData(c, status, mapConversationToResponse(conv))
}

// List returns the caller's conversations, most recently active first
func (h *ConversationHandler) List(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	conversations, err := h.conversationService.List(c.Request.Context(), caller)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	response := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		response = append(response, mapConversationToResponse(conv))
	}
	RespondOK(c, response)
}

// Messages returns a conversation's messages in chronological order
func (h *ConversationHandler) Messages(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "conversation ID")
	if !ok {
		return
	}

	messages, err := h.conversationService.Messages(c.Request.Context(), caller, id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, mapMessageToResponse(m))
	}
	RespondOK(c, response)
}

func (h *ConversationHandler) Send(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "conversation ID")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	msg, err := h.conversationService.Send(c.Request.Context(), caller, id, req.Text)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapMessageToResponse(msg))
}

// MarkRead marks the other participant's messages as read
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "conversation ID")
	if !ok {
		return
	}

	updated, err := h.conversationService.MarkRead(c.Request.Context(), caller, id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	RespondOK(c, MarkReadResponse{Updated: updated})
}
