package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "finwise/internal/errors"
	"finwise/internal/logger"
)

// abortWithAppError stops the chain and writes appErr in the standard
// {"error": {"code", "message"}} envelope.
func abortWithAppError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// ErrorHandler converts errors attached with c.Error into JSON error
// responses. AppErrors keep their code and message; anything else becomes
// INTERNAL_ERROR and is logged with the request ID.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log := logger.Get().With("request_id", c.GetString(requestIDKey), "path", c.Request.URL.Path)

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				log.Errorw("request failed", "code", appErr.Code, "internal", appErr.Internal.Error())
			}
			abortWithAppError(c, appErr)
			return
		}

		log.Errorw("unexpected error", "error", err.Error(), "method", c.Request.Method)
		abortWithAppError(c, apperrors.ErrInternalServer)
	}
}

// NotFound answers unknown routes in the same envelope as other errors.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithAppError(c, apperrors.WithMessage(apperrors.ErrNotFound, "Route not found"))
	}
}
