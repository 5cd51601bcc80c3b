// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package mood

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/moodbinge/moodbinge/internal/catalog"
)

func mustProfile(t *testing.T, id string) *Profile {
	t.Helper()
	p, ok := NewRegistry().Get(id)
	if !ok {
		t.Fatalf("profile %q missing", id)
	}
	return p
}

func TestRegistryHasAllMoods(t *testing.T) {
	r := NewRegistry()
	want := []string{
		"cosmic_emptiness", "euphoria_wave", "fury_awakened",
		"heartfelt_harmony", "phantom_fear", "somber_ruminations",
		"timeworn_echoes", "tranquil_haven", "victory_high", "wonder_hunt",
	}
	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("List returned %d profiles, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.ID != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, p.ID, want[i])
		}
	}
}

func TestGenreStageRejectsExcluded(t *testing.T) {
	p := mustProfile(t, "phantom_fear")

	// A horror movie carrying two excluded genres collapses below the
	// rejection threshold: 1.5 * 0.3^2 = 0.135.
	m := &catalog.Movie{Genres: []string{"Horror", "Comedy", "Musical"}}
	if got := (GenreStage{}).Apply(m, p, 1.0); got != 0 {
		t.Errorf("excluded-genre movie scored %.3f, want 0", got)
	}

	// A clean horror-thriller scores 1 + 0.5*2 = 2.0.
	m = &catalog.Movie{Genres: []string{"Horror", "Thriller"}}
	if got := (GenreStage{}).Apply(m, p, 1.0); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("horror-thriller scored %.3f, want 2.0", got)
	}

	// No primary, one secondary: 0.5 * 1.2 = 0.6.
	m = &catalog.Movie{Genres: []string{"Sci-Fi"}}
	if got := (GenreStage{}).Apply(m, p, 1.0); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("sci-fi scored %.3f, want 0.6", got)
	}
}

func TestTagStageMultipliers(t *testing.T) {
	p := mustProfile(t, "phantom_fear")
	tests := []struct {
		tags []string
		want float64
	}{
		{nil, 1.0},
		{[]string{"scary"}, 1.2},
		{[]string{"scary", "creepy"}, 1.35},
		{[]string{"scary", "creepy", "ghost"}, 1.4},
		{[]string{"scary", "creepy", "ghost", "zombie", "vampire", "monster"}, 1.5},
	}
	for _, tt := range tests {
		m := &catalog.Movie{Tags: tt.tags}
		if got := (TagStage{}).Apply(m, p, 1.0); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("tags %v scored %.3f, want %.3f", tt.tags, got, tt.want)
		}
	}
}

func TestInversePopularityBoostsObscure(t *testing.T) {
	obscure := &catalog.Movie{NumRatings: 5}
	popular := &catalog.Movie{NumRatings: 5000}
	st := InversePopularityStage{}
	if so, sp := st.Apply(obscure, nil, 1.0), st.Apply(popular, nil, 1.0); so <= sp {
		t.Errorf("obscure boost %.3f not greater than popular boost %.3f", so, sp)
	}
	if got := st.Apply(&catalog.Movie{}, nil, 1.0); got != 1.0 {
		t.Errorf("unrated movie scored %.3f, want unchanged 1.0", got)
	}
}

func TestTemporalStage(t *testing.T) {
	tests := []struct {
		year int
		want float64
	}{
		{1955, 1.4},
		{1978, 1.2},
		{1985, 1.2},
		{1995, 1.0},
		{2004, 0.85},
		{2015, 1.0},
		{0, 1.0},
	}
	for _, tt := range tests {
		m := &catalog.Movie{Year: tt.year}
		if got := (TemporalStage{}).Apply(m, nil, 1.0); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("year %d scored %.3f, want %.3f", tt.year, got, tt.want)
		}
	}
}

func TestDramaBalanceStage(t *testing.T) {
	drama := &catalog.Movie{Genres: []string{"Drama"}}
	somber := mustProfile(t, "somber_ruminations") // Drama primary
	fear := mustProfile(t, "phantom_fear")

	if got := (DramaBalanceStage{}).Apply(drama, somber, 1.0); math.Abs(got-0.85) > 1e-9 {
		t.Errorf("drama-primary penalty: got %.3f, want 0.85", got)
	}
	if got := (DramaBalanceStage{}).Apply(drama, fear, 1.0); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("drama-foreign penalty: got %.3f, want 0.75", got)
	}
}

func TestScorerDeterministicWithSeed(t *testing.T) {
	p := mustProfile(t, "phantom_fear")
	m := &catalog.Movie{
		Genres:     []string{"Horror", "Thriller"},
		Year:       1982,
		AvgRating:  3.8,
		NumRatings: 40,
		Tags:       []string{"scary", "creepy"},
	}

	s1 := NewScorer(DiversityStages(rand.New(rand.NewSource(7)))...)
	s2 := NewScorer(DiversityStages(rand.New(rand.NewSource(7)))...)
	if a, b := s1.Score(m, p), s2.Score(m, p); a != b {
		t.Errorf("same seed diverged: %.6f vs %.6f", a, b)
	}

	// nil RNG disables exploration entirely: repeated calls are identical.
	s3 := NewScorer(DiversityStages(nil)...)
	if a, b := s3.Score(m, p), s3.Score(m, p); a != b {
		t.Errorf("nil-rng scorer not deterministic: %.6f vs %.6f", a, b)
	}
}

func TestScorerShortCircuitsOnRejection(t *testing.T) {
	p := mustProfile(t, "euphoria_wave")
	m := &catalog.Movie{Genres: []string{"Horror", "War", "Crime"}, AvgRating: 5, NumRatings: 10000}
	s := NewScorer(DiversityStages(nil)...)
	if got := s.Score(m, p); got != 0 {
		t.Errorf("rejected movie scored %.3f, want 0", got)
	}
}

func TestEnhancerTagScore(t *testing.T) {
	p := mustProfile(t, "phantom_fear")
	e := NewEnhancer()
	tests := []struct {
		tags []string
		want float64
	}{
		{nil, 0},
		{[]string{"scary"}, 0.4},
		{[]string{"scary", "ghost"}, 0.7},
		{[]string{"scary", "ghost", "zombie"}, 0.9},
		{[]string{"scary", "ghost", "zombie", "vampire", "monster"}, 1.0},
	}
	for _, tt := range tests {
		if got := e.TagScore(&catalog.Movie{Tags: tt.tags}, p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("tags %v scored %.3f, want %.3f", tt.tags, got, tt.want)
		}
	}
}

func TestEnhanceYearBias(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := NewEnhancerAt(now)
	nostalgia := mustProfile(t, "timeworn_echoes") // negative year bias

	old := &catalog.Movie{Year: 1956, AvgRating: 4.0, NumRatings: 50}
	// timeworn_echoes bias -0.15: a 70-year-old film adds -0.15*70/40.
	wantOld := 1.0*0.3 + (4.0/5.0)*0.3 + math.Min(math.Log1p(50)/8, 1)*0.15 + 0 + (-0.15)*(70.0/40.0)
	if got := e.Enhance(old, nostalgia, 1.0); math.Abs(got-math.Max(0.1, wantOld)) > 1e-9 {
		t.Errorf("Enhance(old) = %.4f, want %.4f", got, math.Max(0.1, wantOld))
	}
}

func TestEnhanceFloor(t *testing.T) {
	e := NewEnhancerAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	p := mustProfile(t, "fury_awakened")
	m := &catalog.Movie{} // no signals at all
	if got := e.Enhance(m, p, 0); got != 0.1 {
		t.Errorf("Enhance floor = %.3f, want 0.1", got)
	}
}
