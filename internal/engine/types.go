// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

// Package engine orchestrates the recommendation pipeline: mood scoring,
// hybrid fusion, session anti-repetition, controlled randomization,
// diversity selection and metadata enrichment.
package engine

import (
	"errors"

	"github.com/moodbinge/moodbinge/internal/catalog"
)

// Request-surfaced sentinel errors. Everything else (enrichment, the
// collaborative model) degrades instead of failing the request.
var (
	// ErrUnknownMood is returned for a mood id outside the registry.
	ErrUnknownMood = errors.New("unknown mood")
	// ErrInvalidID is returned for a syntactically invalid identifier.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrMovieNotFound is returned when a movie id is not in the catalog.
	ErrMovieNotFound = errors.New("movie not found")
)

// Request describes one recommendation query.
type Request struct {
	Mood      string `json:"mood"`
	Count     int    `json:"count"`
	SessionID string `json:"session_id,omitempty"`
	// UserID enables hybrid fusion with the collaborative model.
	// Zero means anonymous.
	UserID int `json:"user_id,omitempty"`
}

// Recommendation is one recommended movie with its scores and enrichment.
type Recommendation struct {
	MovieID      int      `json:"movieId"`
	Title        string   `json:"title"`
	Genres       []string `json:"genres"`
	Year         int      `json:"year,omitempty"`
	Rating       float64  `json:"rating"`
	Popularity   int      `json:"popularity"`
	Score        float64  `json:"score"`
	TMDBID       int64    `json:"tmdbId,omitempty"`
	PosterPath   *string  `json:"poster_path"`
	BackdropPath *string  `json:"backdrop_path"`
	Overview     string   `json:"overview"`
}

// candidate is a movie moving through the ranking pipeline. rank is the
// score the current phase orders by; score keeps the raw pipeline score for
// the response.
type candidate struct {
	movie *catalog.Movie
	score float64
	rank  float64
}

// RegionLookup answers production-country questions for the diversity
// selector. The enrichment layer's region index implements it; a nil lookup
// disables the international quota.
type RegionLookup interface {
	Countries(tmdbID int64) ([]string, bool)
	IsUnderrepresented(tmdbID int64) bool
}
