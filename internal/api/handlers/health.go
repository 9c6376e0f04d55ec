package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health. It reports liveness without touching the
// database so load balancers get a fast answer even under storage pressure.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Grand Auto Garage API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
