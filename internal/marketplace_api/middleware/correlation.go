package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader is the HTTP header for correlation ID
	CorrelationIDHeader = "X-Correlation-ID"

	maxCorrelationIDLength = 128
)

type correlationIDContextKey struct{}

// CorrelationID makes sure every request carries a correlation ID on its request context.
// A client supplied ID is kept when it is short printable ASCII, otherwise a new UUID is issued.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if !validCorrelationID(correlationID) {
			correlationID = uuid.New().String()
		}

		c.Header(CorrelationIDHeader, correlationID)
		c.Request = c.Request.WithContext(WithCorrelationID(c.Request.Context(), correlationID))

		c.Next()
	}
}

// WithCorrelationID returns a copy of ctx carrying id
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID stored by WithCorrelationID, or ""
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDContextKey{}).(string)
	return id
}

// GetCorrelationID reads the correlation ID from the request context
func GetCorrelationID(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}
	return CorrelationIDFromContext(c.Request.Context())
}

func validCorrelationID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
