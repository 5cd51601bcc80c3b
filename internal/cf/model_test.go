// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package cf

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

// fixtureRatings returns a small matrix where users 1-3 agree on movies
// 10/11 and user 4 likes movie 20 alone. User 99 has too few ratings to be
// admitted.
func fixtureRatings() map[int]map[int]float64 {
	return map[int]map[int]float64{
		1:  {10: 5, 11: 4, 12: 3, 13: 2, 14: 1},
		2:  {10: 4, 11: 5, 12: 3, 13: 1, 15: 4},
		3:  {10: 5, 11: 5, 14: 2, 15: 3, 16: 4},
		4:  {20: 5, 21: 4, 22: 3, 23: 5, 24: 4},
		99: {10: 5},
	}
}

func trainedModel(t *testing.T) *Model {
	t.Helper()
	m := New(0, zerolog.Nop())
	if err := m.Train(context.Background(), fixtureRatings()); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if !m.IsTrained() {
		t.Fatal("model not marked trained")
	}
	return m
}

func TestSparseUsersExcluded(t *testing.T) {
	m := trainedModel(t)
	m.mu.RLock()
	_, ok := m.userVectors[99]
	m.mu.RUnlock()
	if ok {
		t.Error("user with a single rating admitted to the model")
	}
}

func TestSimilarMoviesExcludesSelf(t *testing.T) {
	m := trainedModel(t)
	for _, s := range m.SimilarMovies(10, 10) {
		if s.MovieID == 10 {
			t.Fatal("query movie returned in its own similar list")
		}
	}
}

func TestSimilarMoviesUnknownID(t *testing.T) {
	m := trainedModel(t)
	if got := m.SimilarMovies(777, 5); len(got) != 0 {
		t.Errorf("unknown movie returned %d results, want 0", len(got))
	}
}

func TestSimilarMoviesCoRated(t *testing.T) {
	m := trainedModel(t)
	got := m.SimilarMovies(10, 3)
	if len(got) == 0 {
		t.Fatal("no similar movies for a heavily co-rated title")
	}
	// movie 11 is co-rated with 10 by all three overlapping users and must
	// rank above the isolated cluster (20..24), which shares no raters.
	if got[0].MovieID != 11 {
		t.Errorf("top similar = %d, want 11", got[0].MovieID)
	}
	for _, s := range got {
		if s.MovieID >= 20 && s.MovieID <= 24 {
			t.Errorf("movie %d from disjoint rater cluster has similarity %f", s.MovieID, s.Score)
		}
	}
}

func TestRecommendForUserExcludesRated(t *testing.T) {
	m := trainedModel(t)
	rated := fixtureRatings()[1]
	for _, s := range m.RecommendForUser(1, 10, true) {
		if _, ok := rated[s.MovieID]; ok {
			t.Errorf("already-rated movie %d recommended", s.MovieID)
		}
	}
}

func TestRecommendForUnknownUserFallsBack(t *testing.T) {
	m := trainedModel(t)
	got := m.RecommendForUser(12345, 5, true)
	if len(got) == 0 {
		t.Fatal("unknown user received no popularity fallback")
	}
	pop := m.PopularMovies(5)
	for i := range got {
		if got[i] != pop[i] {
			t.Fatalf("fallback diverges from popularity ranking at %d: %v vs %v", i, got[i], pop[i])
		}
	}
}

func TestPopularityBlend(t *testing.T) {
	// Two movies with equal averages: the one with more ratings wins.
	ratings := map[int]map[int]float64{
		1: {100: 4, 200: 4, 101: 1, 102: 1, 103: 1},
		2: {100: 4, 104: 1, 105: 1, 106: 1, 107: 1},
		3: {100: 4, 108: 1, 109: 1, 110: 1, 111: 1},
	}
	ranked := buildPopularityRanking(ratings)
	if ranked[0].MovieID != 100 {
		t.Errorf("top popular = %d, want 100", ranked[0].MovieID)
	}
}

func TestTrainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(0, zerolog.Nop())
	if err := m.Train(ctx, fixtureRatings()); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if m.IsTrained() {
		t.Error("cancelled training left model marked trained")
	}
}
