// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultClientConfig()
	cfg.BaseURL = srv.URL
	cfg.APIKey = "test-key"
	cfg.RetryBackoff = time.Millisecond
	cfg.RateLimit = 10000
	cfg.RateBurst = 100
	return NewClient(cfg, zerolog.Nop()), srv
}

func TestMovieDetailsSuccess(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/862" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Error("api key missing from request")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 862, "title": "Toy Story",
			"poster_path": "/poster.jpg", "overview": "A cowboy doll.",
			"release_date": "1995-10-30",
			"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
			"spoken_languages": [{"english_name": "English", "name": "English"}]
		}`))
	}))

	meta, err := c.MovieDetails(context.Background(), 862)
	if err != nil {
		t.Fatalf("MovieDetails: %v", err)
	}
	if meta.Title != "Toy Story" || meta.Overview != "A cowboy doll." {
		t.Errorf("meta = %+v", meta)
	}
	if meta.PosterPath == nil || *meta.PosterPath != "/poster.jpg" {
		t.Error("poster path not decoded")
	}
	if len(meta.Countries) != 1 || meta.Countries[0] != "United States of America" {
		t.Errorf("countries = %v", meta.Countries)
	}
}

func TestMovieDetailsNotFound(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.MovieDetails(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if calls.Load() != 1 {
		t.Errorf("404 was retried %d times, want a single attempt", calls.Load())
	}
}

func TestMovieDetailsRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id": 1, "title": "Recovered"}`))
	}))

	meta, err := c.MovieDetails(context.Background(), 1)
	if err != nil {
		t.Fatalf("MovieDetails after retries: %v", err)
	}
	if meta.Title != "Recovered" {
		t.Errorf("title = %q", meta.Title)
	}
	if calls.Load() != 3 {
		t.Errorf("attempts = %d, want 3", calls.Load())
	}
}

func TestMovieDetailsRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.MovieDetails(context.Background(), 1)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if calls.Load() != int32(c.cfg.MaxRetries) {
		t.Errorf("attempts = %d, want %d", calls.Load(), c.cfg.MaxRetries)
	}
}

func TestMovieDetailsHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"id": 1, "title": "After backoff"}`))
	}))

	start := time.Now()
	meta, err := c.MovieDetails(context.Background(), 1)
	if err != nil {
		t.Fatalf("MovieDetails: %v", err)
	}
	if meta.Title != "After backoff" {
		t.Errorf("title = %q", meta.Title)
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Errorf("retried after %s, expected at least the Retry-After second", elapsed)
	}
}

func TestParseRetryAfterCap(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", 2 * time.Second},
		{"3", 3 * time.Second},
		{"120", maxRetryAfter},
		{"bogus", 2 * time.Second},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.header); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestRecommendations(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/862/recommendations" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"results": [
			{"id": 863, "title": "Toy Story 2", "overview": "More toys."},
			{"id": 10193, "title": "Toy Story 3", "overview": ""},
			{"id": 301528, "title": "Toy Story 4", "overview": "Forky."}
		]}`))
	}))

	got, err := c.Recommendations(context.Background(), 862, 2)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].TMDBID != 863 {
		t.Errorf("first id = %d", got[0].TMDBID)
	}
}

func TestEmptyOverviewGetsPlaceholder(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 5, "title": "Silent"}`))
	}))
	meta, err := c.MovieDetails(context.Background(), 5)
	if err != nil {
		t.Fatalf("MovieDetails: %v", err)
	}
	if meta.Overview != PlaceholderOverview {
		t.Errorf("overview = %q, want placeholder", meta.Overview)
	}
}
