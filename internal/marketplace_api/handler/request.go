package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/marketplace_api/middleware"
)

// callerOrAbort returns the authenticated caller, answering 401 when the route is not behind Authenticate
func callerOrAbort(c *gin.Context) (shared.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		RespondUnauthorized(c, "")
		return shared.Caller{}, false
	}
	return caller, true
}

// uuidParam parses a path parameter, answering 400 when it is not a UUID
func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondBadRequest(c, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}
