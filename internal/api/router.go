// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig tunes the HTTP middleware stack.
type RouterConfig struct {
	RateLimitReqs     int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// NewRouter wires the full route tree.
func NewRouter(h *Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	rateLimit := func(next http.Handler) http.Handler { return next }
	if !cfg.RateLimitDisabled {
		rateLimit = RateLimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow)
	}

	// Health endpoints stay outside the rate limiter so monitoring is
	// never throttled.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit)

		r.With(PrometheusMetrics("/moods")).
			Get("/moods", h.Moods)
		r.With(PrometheusMetrics("/recommendations/{mood}")).
			Get("/recommendations/{mood}", h.Recommendations)
		r.With(PrometheusMetrics("/movies/{id}")).
			Get("/movies/{id}", h.MovieDetails)
		r.With(PrometheusMetrics("/movies/{id}/similar")).
			Get("/movies/{id}/similar", h.SimilarMovies)
		r.With(PrometheusMetrics("/sessions/{id}/stats")).
			Get("/sessions/{id}/stats", h.SessionStats)
		r.With(PrometheusMetrics("/cache/stats")).
			Get("/cache/stats", h.CacheStats)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
