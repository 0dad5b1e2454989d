package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"chatpdf/internal/health"
)

// RequestMetrics feeds request counts, latencies, and error totals into the
// health monitor.
func RequestMetrics(monitor *health.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		monitor.Record(time.Since(start), c.Writer.Status() >= 500)
	}
}
