package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/taxprep/backend/internal/infrastructure/telemetry"
)

// Metrics records request count, latency and in-flight requests per route
// template, so /blogs/:id is one series however many posts exist.
func Metrics(m *telemetry.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.Begin()
		c.Next()
		done(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
