// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package metrics exposes Prometheus instrumentation for the recommendation
// pipeline: API latency, DuckDB query performance, recommendation generation,
// model rebuilds, cache efficiency, the event bus, and WebSocket connections.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests by merge strategy",
		},
		[]string{"strategy"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent generating a recommendation response",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	RecommendationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_errors_total",
			Help: "Total number of failed recommendation requests",
		},
	)

	// Response cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	CacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_invalidations_total",
			Help: "Total number of per-resume cache invalidations",
		},
	)

	// Model rebuild metrics
	ModelRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_rebuild_duration_seconds",
			Help:    "Duration of collaborative model rebuilds in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	ModelRebuildErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "model_rebuild_errors_total",
			Help: "Total number of failed model rebuilds",
		},
	)

	ModelLastRebuilt = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_last_rebuild_timestamp",
			Help: "Unix timestamp of the last successful model rebuild",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_version",
			Help: "Monotonic version of the active collaborative model",
		},
	)

	ModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_users",
			Help: "Number of resumes in the active collaborative model",
		},
	)

	ModelItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_items",
			Help: "Number of jobs in the active collaborative model",
		},
	)

	// Interaction metrics
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of interactions recorded by type",
		},
		[]string{"interaction_type"},
	)

	// Search metrics
	SearchQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_queries_total",
			Help: "Total number of full-text search queries",
		},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Full-text search query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	// Embedder client metrics
	EmbedderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedder_requests_total",
			Help: "Total number of embedding service requests by outcome",
		},
		[]string{"outcome"}, // "success", "failure", "rejected"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Event bus metrics
	NATSPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of messages published to NATS",
		},
	)

	NATSConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_consumed_total",
			Help: "Total number of messages consumed from NATS",
		},
	)

	NATSProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_processed_total",
			Help: "Total number of messages successfully processed",
		},
	)

	NATSParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_parse_failures_total",
			Help: "Total number of messages that failed to parse",
		},
	)

	NATSPoisoned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_poisoned_total",
			Help: "Total number of messages routed to the poison queue",
		},
	)

	// WebSocket metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WebSocketMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of messages broadcast to WebSocket clients",
		},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records a recommendation request outcome.
func RecordRecommendation(strategy string, duration time.Duration, err error) {
	RecommendationRequests.WithLabelValues(strategy).Inc()
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if err != nil {
		RecommendationErrors.Inc()
	}
}

// RecordModelRebuild records a model rebuild outcome and the resulting shape.
func RecordModelRebuild(duration time.Duration, version int64, users, items int, err error) {
	ModelRebuildDuration.Observe(duration.Seconds())
	if err != nil {
		ModelRebuildErrors.Inc()
		return
	}
	ModelLastRebuilt.Set(float64(time.Now().Unix()))
	ModelVersion.Set(float64(version))
	ModelUsers.Set(float64(users))
	ModelItems.Set(float64(items))
}

// RecordSearch records a full-text search query.
func RecordSearch(duration time.Duration) {
	SearchQueries.Inc()
	SearchDuration.Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
