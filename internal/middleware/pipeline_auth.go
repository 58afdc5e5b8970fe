package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "finwise/internal/errors"
)

// PipelineAPIKeyHeader carries the operator key on pipeline routes.
const PipelineAPIKeyHeader = "X-API-Key"

// PipelineAuthMiddleware guards scheduler and operator routes with a shared
// API key. An empty configured key disables the routes entirely.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithAppError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		key := c.GetHeader(PipelineAPIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithAppError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
