package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxprep/backend/internal/interfaces/http/dto"
)

// BodyLimitConfig configures BodyLimitWithConfig
type BodyLimitConfig struct {
	MaxBytes int64
	// Skip leaves the body of matching requests alone. Routes skipped here are
	// expected to carry their own BodyLimit.
	Skip func(c *gin.Context) bool
}

// BodyLimit returns a middleware that limits request body size. Requests that
// declare a larger Content-Length are refused up front; streamed bodies are cut
// off by http.MaxBytesReader and fail when bound.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return BodyLimitWithConfig(BodyLimitConfig{MaxBytes: maxBytes})
}

// BodyLimitWithConfig is BodyLimit with a skip rule
func BodyLimitWithConfig(cfg BodyLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Skip != nil && cfg.Skip(c) {
			c.Next()
			return
		}
		if c.Request.ContentLength > cfg.MaxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				dto.ErrCodePayloadTooLarge,
				"Request body exceeds maximum allowed size",
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxBytes)
		c.Next()
	}
}
