// Package handlers contains the HTTP request handlers of the garage API.
//
// Handlers validate input shape, invoke repository operations, and map
// outcomes to the `{message, <entity or list>, count?}` response envelope.
// Error outcomes are recorded on the gin context and shaped by the
// error-handler middleware.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grandauto/garage/internal/repository"
)

// Server holds the handler dependencies.
type Server struct {
	repos *repository.Repositories
}

// NewServer creates the handler set over the given repositories.
func NewServer(repos *repository.Repositories) *Server {
	return &Server{repos: repos}
}

// idParam parses the named path parameter as an entity id. A non-numeric
// segment can never resolve to a record, so callers treat false as the
// entity's not-found outcome.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
