// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/moodbinge/moodbinge/internal/logging"
	"github.com/moodbinge/moodbinge/internal/metrics"
)

// RequestID attaches a request ID to the context and response headers,
// honoring an inbound X-Request-ID when present.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = logging.GenerateRequestID()
			}
			w.Header().Set("X-Request-ID", id)
			ctx := logging.ContextWithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// PrometheusMetrics records request counts, durations and the in-flight
// gauge. endpoint groups by route pattern, not raw path, to bound label
// cardinality.
func PrometheusMetrics(endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			metrics.APIActiveRequests.Inc()
			defer metrics.APIActiveRequests.Dec()

			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sr, r)

			metrics.RecordAPIRequest(r.Method, endpoint, sr.status, time.Since(start))
		})
	}
}

// RateLimitByIP limits each client IP to reqs requests per window. A zero
// request budget disables limiting.
func RateLimitByIP(reqs int, window time.Duration) func(http.Handler) http.Handler {
	if reqs <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		reqs,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded")
		}),
	)
}
