package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// CallerKey is the key used to store the authenticated shared.Caller in the context
const CallerKey = "caller"

// TokenVerifier turns a bearer token into the identity it was issued for
type TokenVerifier interface {
	Verify(token string) (shared.Caller, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and stores the caller,
// stamped with the request's correlation ID, for handlers to pass into the services.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid Authorization header")
			return
		}

		caller, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		caller.CorrelationID = GetCorrelationID(c)
		c.Set(CallerKey, caller)
		c.Next()
	}
}

// RequireRole rejects callers holding none of roles. It must run after Authenticate.
func RequireRole(roles ...shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			return
		}
		if err := caller.Require(roles...); err != nil {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
			return
		}
		c.Next()
	}
}

// GetCaller retrieves the authenticated caller from the gin context if present
func GetCaller(c *gin.Context) (shared.Caller, bool) {
	if v, exists := c.Get(CallerKey); exists {
		if caller, ok := v.(shared.Caller); ok {
			return caller, true
		}
	}
	return shared.Caller{}, false
}
