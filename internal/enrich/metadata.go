// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

// Package enrich fetches and caches TMDB movie metadata. Fetching is
// batched, rate limited, retried with backoff, and guarded by a circuit
// breaker; successes and known-missing ids are cached with separate TTLs.
package enrich

import "context"

// PlaceholderOverview is used when no metadata could be fetched for a movie.
const PlaceholderOverview = "No overview available."

// Metadata is the subset of TMDB movie details the service consumes.
type Metadata struct {
	TMDBID       int64    `json:"tmdb_id"`
	Title        string   `json:"title,omitempty"`
	PosterPath   *string  `json:"poster_path"`
	BackdropPath *string  `json:"backdrop_path"`
	Overview     string   `json:"overview"`
	ReleaseDate  string   `json:"release_date,omitempty"`
	Countries    []string `json:"production_countries,omitempty"`
	Languages    []string `json:"spoken_languages,omitempty"`
}

// Placeholder returns the metadata used when enrichment fails or is skipped.
func Placeholder(tmdbID int64) Metadata {
	return Metadata{TMDBID: tmdbID, Overview: PlaceholderOverview}
}

// Source supplies metadata for a set of TMDB ids. Ids without metadata are
// simply absent from the result; the call itself never fails, degraded
// results are the failure mode.
type Source interface {
	FetchBatch(ctx context.Context, tmdbIDs []int64) map[int64]Metadata
}
