package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Request metrics
	requestsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyartu_requests_received_total",
		Help: "Total number of API requests received",
	}, []string{"route"})

	requestsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyartu_requests_processed_total",
		Help: "Total number of API requests processed",
	}, []string{"route", "status"})

	// AI metrics
	aiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kyartu_ai_request_duration_seconds",
		Help:    "Duration of AI requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model", "status"})

	aiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyartu_ai_requests_total",
		Help: "Total number of AI requests",
	}, []string{"model", "status"})

	// Search cache metrics
	searchCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kyartu_search_cache_hits_total",
		Help: "Total number of search cache hits",
	})

	searchCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kyartu_search_cache_misses_total",
		Help: "Total number of search cache misses",
	})

	// Rate limit metrics
	rateLimitExceeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyartu_rate_limit_exceeded_total",
		Help: "Total number of rate limit exceeded events",
	}, []string{"user_id"})

	// Key-value store metrics
	storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyartu_store_operations_total",
		Help: "Total number of key-value store operations",
	}, []string{"operation", "status"})

	storeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kyartu_store_operation_duration_seconds",
		Help:    "Duration of key-value store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// Local fallback usage
	fallbackReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kyartu_fallback_reads_total",
		Help: "Total number of reads served from the local fallback store",
	})

	// Active sessions gauge
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kyartu_active_sessions",
		Help: "Number of active chat sessions",
	})
)

// Metrics provides methods to record metrics
type Metrics struct{}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRequestReceived records a received API request
func (m *Metrics) RecordRequestReceived(route string) {
	requestsReceived.WithLabelValues(route).Inc()
}

// RecordRequestProcessed records a processed API request
func (m *Metrics) RecordRequestProcessed(route, status string) {
	requestsProcessed.WithLabelValues(route, status).Inc()
}

// RecordAIRequest records an AI request
func (m *Metrics) RecordAIRequest(model, status string, duration time.Duration) {
	aiRequestDuration.WithLabelValues(model, status).Observe(duration.Seconds())
	aiRequestsTotal.WithLabelValues(model, status).Inc()
}

// RecordSearchCacheHit records a search cache hit
func (m *Metrics) RecordSearchCacheHit() {
	searchCacheHits.Inc()
}

// RecordSearchCacheMiss records a search cache miss
func (m *Metrics) RecordSearchCacheMiss() {
	searchCacheMisses.Inc()
}

// RecordRateLimitExceeded records a rate limit exceeded event
func (m *Metrics) RecordRateLimitExceeded(userID string) {
	rateLimitExceeded.WithLabelValues(userID).Inc()
}

// RecordStoreOperation records a key-value store operation
func (m *Metrics) RecordStoreOperation(operation, status string, duration time.Duration) {
	storeOperations.WithLabelValues(operation, status).Inc()
	storeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFallbackRead records a read served from the local fallback store
func (m *Metrics) RecordFallbackRead() {
	fallbackReads.Inc()
}

// SetActiveSessions sets the number of active sessions
func (m *Metrics) SetActiveSessions(count float64) {
	activeSessions.Set(count)
}

// StartMetricsServer starts the metrics HTTP server
func StartMetricsServer(port int, path string) error {
	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler())

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
