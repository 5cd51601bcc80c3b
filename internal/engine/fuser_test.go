// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package engine

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/moodbinge/moodbinge/internal/cf"
)

func trainedModel(t *testing.T) *cf.Model {
	t.Helper()
	ratings := map[int]map[int]float64{
		1: {10: 5, 11: 4, 12: 3, 13: 2, 14: 1},
		2: {10: 5, 11: 5, 12: 2, 13: 1, 15: 4},
		3: {10: 4, 11: 4, 14: 5, 15: 5, 16: 3},
	}
	m := cf.New(3, zerolog.Nop())
	if err := m.Train(context.Background(), ratings); err != nil {
		t.Fatalf("Train: %v", err)
	}
	return m
}

func TestFusionWeightsNormalized(t *testing.T) {
	w := FusionWeights{Mood: 2, Collaborative: 1, Popularity: 1}.normalized()
	if math.Abs(w.Mood-0.5) > 1e-9 || math.Abs(w.Collaborative-0.25) > 1e-9 {
		t.Errorf("normalized = %+v", w)
	}

	zero := FusionWeights{}.normalized()
	if zero != AnonymousWeights {
		t.Errorf("zero weights normalized to %+v, want anonymous defaults", zero)
	}
}

func TestNormalizeScore(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{2.5, 0.5},
		{0, 0},
		{-1, 0},
		{7, 1},
	} {
		if got := normalizeScore(tc.in); got != tc.want {
			t.Errorf("normalizeScore(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFuseAnonymousIgnoresCollaborative(t *testing.T) {
	f := &fuser{model: trainedModel(t)}
	moodScores := map[int]float64{10: 4.0, 16: 1.0}

	out := f.fuse(moodScores, 0, 2, AnonymousWeights)
	if len(out) == 0 {
		t.Fatal("empty fusion")
	}
	if out[0].MovieID != 10 {
		t.Errorf("top = %d, want mood-dominant movie 10", out[0].MovieID)
	}
}

func TestFuseUserBlendsCollaborative(t *testing.T) {
	f := &fuser{model: trainedModel(t)}
	// Flat mood scores so the collaborative signal decides the order.
	moodScores := map[int]float64{12: 2.0, 13: 2.0, 14: 2.0, 15: 2.0, 16: 2.0}

	out := f.fuse(moodScores, 1, 5, UserWeights)
	if len(out) == 0 {
		t.Fatal("empty fusion")
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].Score < out[i].Score {
			t.Errorf("scores not descending at %d", i)
		}
	}
	// User 1 left 15 and 16 unrated; the collaborative term must lift at
	// least one of them above a flat-mood ordering by id.
	got := make(map[int]float64)
	for _, s := range out {
		got[s.MovieID] = s.Score
	}
	if got[15] == got[12] && got[16] == got[12] {
		t.Error("collaborative signal had no effect on user fusion")
	}
}

func TestFuseUntrainedModelShiftsWeight(t *testing.T) {
	f := &fuser{model: cf.New(3, zerolog.Nop())}
	moodScores := map[int]float64{1: 3.0, 2: 1.0}

	out := f.fuse(moodScores, 42, 2, UserWeights)
	if len(out) != 2 {
		t.Fatalf("got %d results, want 2", len(out))
	}
	if out[0].MovieID != 1 {
		t.Errorf("top = %d, want mood-dominant movie 1", out[0].MovieID)
	}
}
