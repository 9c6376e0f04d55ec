package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/grandauto/garage/internal/pkg/errors"
	"github.com/grandauto/garage/internal/pkg/logger"
)

// ErrorHandler provides centralized error handling. Handlers record
// repository outcomes via c.Error(); this middleware maps the outcome
// kind to a status code and the `{error: ..., <extras>}` body shape.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if appErr, ok := apperrors.IsAppError(err); ok {
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error("Request failed",
					zap.String("code", appErr.Code),
					zap.String("request_id", GetRequestID(c.Request.Context())),
					zap.Error(appErr.Err),
				)
			} else {
				logger.Warn("Request error",
					zap.String("code", appErr.Code),
					zap.String("message", appErr.Message),
					zap.Int("status", appErr.HTTPStatus),
				)
			}

			body := gin.H{"error": appErr.Message}
			for k, v := range appErr.Params {
				body[k] = v
			}
			c.JSON(appErr.HTTPStatus, body)
			return
		}

		// Fallback: anything untyped is an internal failure.
		logger.Error("Unhandled request error",
			zap.String("request_id", GetRequestID(c.Request.Context())),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": err.Error(),
		})
	}
}
