// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipebox",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipebox",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// IngredientDecodeFailures counts stored recipes whose ingredient list could not be decoded.
	IngredientDecodeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipebox",
			Name:      "ingredient_decode_failures_total",
			Help:      "Stored recipes whose ingredient list failed to decode",
		},
		[]string{"operation"},
	)

	// QueryDuration observes recipe queries by strategy ("scan" or "pushdown").
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipebox",
			Name:      "recipe_query_duration_seconds",
			Help:      "Recipe query duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"strategy"},
	)

	// CacheRequests counts recipe cache lookups by result ("hit", "miss", "error").
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipebox",
			Name:      "recipe_cache_requests_total",
			Help:      "Recipe cache lookups",
		},
		[]string{"result"},
	)

	// RateLimited counts requests rejected by the write rate limiter.
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recipebox",
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestDuration,
		httpRequestsTotal,
		IngredientDecodeFailures,
		QueryDuration,
		CacheRequests,
		RateLimited,
	)
}

// Middleware records HTTP request duration and count.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := normalizePath(c.FullPath())
		method := c.Request.Method

		httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	}
}

// normalizePath keeps label cardinality bounded; unmatched routes share one label.
func normalizePath(path string) string {
	if path == "" {
		return "unknown"
	}
	return path
}

// ObserveQuery records the time since start for a query strategy.
func ObserveQuery(strategy string, start time.Time) {
	QueryDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
}
