package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quotebook/backend/internal/infrastructure/logger"
	"github.com/quotebook/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size.
// Declared lengths over the limit are refused up front; streamed bodies are
// capped with http.MaxBytesReader and fail when read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				c.GetString(logger.RequestIDKey),
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
