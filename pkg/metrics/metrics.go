package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Custom histogram buckets optimized for API response times ranging from
// milliseconds to multi-second storage uploads.
var CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21}

// Registry is the dedicated registry exposed on /api/metrics
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Metrics
	DBRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheRefreshDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cache_refresh_duration_seconds",
			Help:    "Mentor cache refresh duration in seconds",
			Buckets: CustomAPIBuckets,
		},
	)

	// Connection request ledger metrics
	RequestsCreated = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "connection_requests_created_total",
			Help: "Total number of connection requests created",
		},
	)

	RequestStatusTransitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connection_request_status_transitions_total",
			Help: "Total number of connection request status transitions",
		},
		[]string{"from_status", "to_status"},
	)

	RequestsDeleted = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "connection_requests_deleted_total",
			Help: "Total number of connection requests deleted",
		},
	)

	// Auth metrics
	AuthSignups = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_signups_total",
			Help: "Total number of signup attempts",
		},
		[]string{"status", "role"},
	)

	AuthLogins = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	AuthTokenResolutions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_resolutions_total",
			Help: "Total number of session token resolutions",
		},
		[]string{"status"},
	)

	// Object storage metrics
	StorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "object_storage_request_duration_seconds",
			Help:    "Object storage request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "object_storage_request_total",
			Help: "Total number of object storage requests",
		},
		[]string{"operation", "status"},
	)

	// Infrastructure metrics
	Goroutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "go_app_goroutines",
			Help: "Number of goroutines",
		},
	)
)

var serviceName string

// Init registers runtime collectors and remembers the service name
func Init(name string) {
	serviceName = name
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// ServiceName returns the configured service name
func ServiceName() string {
	return serviceName
}

// RecordInfrastructureMetrics starts a background goroutine sampling runtime stats
func RecordInfrastructureMetrics() {
	go func() {
		for {
			Goroutines.Set(float64(runtime.NumGoroutine()))
			time.Sleep(15 * time.Second)
		}
	}()
}

// MeasureDuration returns the elapsed seconds since start
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
