// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
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

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests served",
		},
		[]string{"mood", "path"}, // path: "enhanced", "classic"
	)

	RecommendationsDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_degraded_total",
			Help: "Requests served by the classic path after an enhanced-path failure",
		},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end ranking duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mood"},
	)

	// TMDB Enrichment Metrics
	TMDBFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_fetches_total",
			Help: "Total number of TMDB fetch attempts by outcome",
		},
		[]string{"outcome"}, // "success", "not_found", "error", "breaker_open"
	)

	TMDBFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tmdb_fetch_duration_seconds",
			Help:    "TMDB fetch duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
	)

	MetadataCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metadata_cache_hits_total",
			Help: "Total number of metadata cache hits",
		},
	)

	MetadataCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metadata_cache_misses_total",
			Help: "Total number of metadata cache misses",
		},
	)

	// Session Metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Current number of live recommendation sessions",
		},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one served recommendation request.
func RecordRecommendation(mood, path string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(mood, path).Inc()
	RecommendationDuration.WithLabelValues(mood).Observe(duration.Seconds())
}

// RecordTMDBFetch records one upstream fetch attempt.
func RecordTMDBFetch(outcome string, duration time.Duration) {
	TMDBFetches.WithLabelValues(outcome).Inc()
	TMDBFetchDuration.Observe(duration.Seconds())
}
