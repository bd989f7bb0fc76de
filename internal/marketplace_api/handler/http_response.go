package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/marketplace_api/middleware"
)

// Response represents a standard API response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MetaInfo represents metadata in a response
type MetaInfo struct {
	Page       int   `json:"page,omitempty"`
	PerPage    int   `json:"per_page,omitempty"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// NewResponse creates a new response with data
func NewResponse(data interface{}) *Response {
	return &Response{
		Data: data,
	}
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message string) *Response {
	return &Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewPaginatedResponse creates a new paginated response
func NewPaginatedResponse(data interface{}, page, perPage int, totalItems int64) *Response {
	totalPages := 0
	if perPage > 0 {
		totalPages = int(totalItems / int64(perPage))
		if totalItems%int64(perPage) > 0 {
			totalPages++
		}
	}

	return &Response{
		Data: data,
		Meta: &MetaInfo{
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
			TotalItems: totalItems,
		},
	}
}

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	response := NewResponse(data)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	response := NewErrorResponse(code, message)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondWithPaginatedData sends a JSON response with paginated data
func RespondWithPaginatedData(c *gin.Context, statusCode int, data interface{}, page, perPage int, totalItems int64) {
	response := NewPaginatedResponse(data, page, perPage, totalItems)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondUnauthorized sends a 401 Unauthorized response with an error
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// RespondInternalError sends a 500 Internal Server Error response with an error
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}

// RespondError translates a service error into its HTTP status and error code.
// Unknown errors are logged and hidden behind a 500.
func RespondError(c *gin.Context, logger *slog.Logger, err error) {
	var validationErr shared.ErrValidation
	switch {
	case errors.As(err, &validationErr):
		response := NewErrorResponse("VALIDATION_ERROR", err.Error())
		response.Error.Fields = validationErr.Fields
		response.CorrelationID = middleware.GetCorrelationID(c)
		c.JSON(http.StatusBadRequest, response)
	case errors.Is(err, shared.ErrForbidden{}):
		RespondWithError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, shared.ErrNotFound{}):
		RespondWithError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, shared.ErrInsufficientBalance{}):
		RespondWithError(c, http.StatusPaymentRequired, "INSUFFICIENT_BALANCE", err.Error())
	case errors.Is(err, shared.ErrInvalidState{}):
		RespondWithError(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, shared.ErrAlreadyProcessed{}):
		RespondWithError(c, http.StatusConflict, "ALREADY_PROCESSED", err.Error())
	case errors.Is(err, shared.ErrSelfConversation{}):
		RespondWithError(c, http.StatusBadRequest, "SELF_CONVERSATION", err.Error())
	case errors.Is(err, shared.ErrTransientFailure{}):
		logger.Warn("Transient failure, client may retry",
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		c.Header("Retry-After", "1")
		RespondWithError(c, http.StatusServiceUnavailable, "TRANSIENT_FAILURE", "The request could not be completed, please retry")
	default:
		logger.Error("Unhandled error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		RespondInternalError(c)
	}
}
