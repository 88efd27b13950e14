package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Authentication metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure, login/session/logout
	)

	// Content store metrics
	ContentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_operations_total",
			Help: "Total number of content store operations",
		},
		[]string{"operation"}, // read, write, backup, backup_failed
	)

	// Cache metrics
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of session cache lookups by result",
		},
		[]string{"cache", "result"}, // hit/miss
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by component and type",
		},
		[]string{"component", "type"},
	)
)

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

// TrackContentOperation increments the content store operation counter
func TrackContentOperation(operation string) {
	ContentOperationsTotal.WithLabelValues(operation).Inc()
}

// TrackCacheOperation records a cache lookup result
func TrackCacheOperation(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheOperationsTotal.WithLabelValues(cache, result).Inc()
}

// TrackError increments the error counter for a component
func TrackError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
