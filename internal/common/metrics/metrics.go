// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loantracker_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "loantracker_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "route"},
	)

	UploadsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loantracker_uploads_failed_total",
			Help: "Total number of failed document uploads",
		},
		[]string{"file_type"},
	)

	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loantracker_reports_generated_total",
			Help: "Total number of report documents generated",
		},
		[]string{"format"},
	)
)

// Middleware records request counts and durations per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
