package middleware

import (
	"github.com/gin-gonic/gin"
)

// abortWithError stops the chain with the API error envelope
func abortWithError(c *gin.Context, status int, code, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(status, response)
}
