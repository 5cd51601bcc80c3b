// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/moodbinge/moodbinge/internal/engine"
	"github.com/moodbinge/moodbinge/internal/enrich"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	engine *engine.Engine
	logger zerolog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(eng *engine.Engine, logger zerolog.Logger) *Handlers {
	return &Handlers{
		engine: eng,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// Moods handles GET /api/v1/moods.
func (h *Handlers) Moods(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	profiles := h.engine.Moods()
	rw.SuccessWithCount(profiles, len(profiles))
}

// Recommendations handles GET /api/v1/recommendations/{mood}.
//
// Query parameters: count (1..50), session_id (enables anti-repetition),
// user_id (enables hybrid fusion), original=true (classic scoring path).
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	count, ok := parseCountParam(rw, r)
	if !ok {
		return
	}
	userID := 0
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			rw.BadRequest("user_id must be a non-negative integer")
			return
		}
		userID = parsed
	}

	moodID := chi.URLParam(r, "mood")
	var (
		recs []engine.Recommendation
		err  error
	)
	if r.URL.Query().Get("original") == "true" {
		recs, err = h.engine.OriginalRecommendations(r.Context(), moodID, count)
	} else {
		recs, err = h.engine.Recommend(r.Context(), engine.Request{
			Mood:      moodID,
			Count:     count,
			SessionID: r.URL.Query().Get("session_id"),
			UserID:    userID,
		})
	}
	if err != nil {
		h.respondEngineError(rw, err, "Failed to generate recommendations")
		return
	}
	if recs == nil {
		recs = []engine.Recommendation{}
	}
	rw.SuccessWithCount(recs, len(recs))
}

// MovieDetails handles GET /api/v1/movies/{id}.
func (h *Handlers) MovieDetails(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := parseIDParam(rw, r)
	if !ok {
		return
	}
	rec, err := h.engine.MovieDetails(r.Context(), id)
	if err != nil {
		h.respondEngineError(rw, err, "Failed to load movie")
		return
	}
	rw.Success(rec)
}

// SimilarMovies handles GET /api/v1/movies/{id}/similar.
func (h *Handlers) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := parseIDParam(rw, r)
	if !ok {
		return
	}
	count, ok := parseCountParam(rw, r)
	if !ok {
		return
	}
	recs, err := h.engine.SimilarMovies(r.Context(), id, count)
	if err != nil {
		h.respondEngineError(rw, err, "Failed to find similar movies")
		return
	}
	if recs == nil {
		recs = []engine.Recommendation{}
	}
	rw.SuccessWithCount(recs, len(recs))
}

// SessionStats handles GET /api/v1/sessions/{id}/stats.
func (h *Handlers) SessionStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	sessionID := chi.URLParam(r, "id")
	stats, ok := h.engine.SessionStats(sessionID)
	if !ok {
		rw.NotFound("Unknown session")
		return
	}
	rw.Success(stats)
}

// cacheStatsBody joins the raw counters with the derived hit rate.
type cacheStatsBody struct {
	enrich.Stats
	HitRatePercent float64 `json:"hit_rate_percent"`
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handlers) CacheStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	stats := h.engine.CacheStats()
	rw.Success(cacheStatsBody{Stats: stats, HitRatePercent: stats.HitRate()})
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handlers) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok"})
}

// HealthReady handles GET /api/v1/health/ready. Ready means the catalog is
// loaded and at least one mood can be served.
func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if len(h.engine.Moods()) == 0 {
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "Engine not ready")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

// respondEngineError maps engine sentinels to HTTP errors.
func (h *Handlers) respondEngineError(rw *ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, engine.ErrUnknownMood):
		rw.NotFound("Unknown mood")
	case errors.Is(err, engine.ErrMovieNotFound):
		rw.NotFound("Movie not found")
	case errors.Is(err, engine.ErrInvalidID):
		rw.BadRequest("Invalid identifier")
	default:
		h.logger.Error().Err(err).Msg("Request failed")
		rw.InternalError(fallback)
	}
}

func parseIDParam(rw *ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		rw.BadRequest("id must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseCountParam(rw *ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return 0, true
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 || count > engine.MaxCount {
		rw.BadRequest("count must be between 1 and " + strconv.Itoa(engine.MaxCount))
		return 0, false
	}
	return count, true
}
