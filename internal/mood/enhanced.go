// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package mood

import (
	"math"
	"time"

	"github.com/moodbinge/moodbinge/internal/catalog"
)

// Weights blends the signals that feed the enhanced score for one mood.
type Weights struct {
	Genre      float64
	Rating     float64
	Popularity float64
	Tag        float64
	// YearBias skews toward newer (positive) or older (negative) releases.
	YearBias float64
}

var moodWeights = map[string]Weights{
	"euphoria_wave":      {Genre: 0.5, Rating: 0.15, Popularity: 0.2, Tag: 0.15, YearBias: 0.05},
	"victory_high":       {Genre: 0.4, Rating: 0.3, Popularity: 0.15, Tag: 0.15, YearBias: 0.1},
	"fury_awakened":      {Genre: 0.6, Rating: 0.15, Popularity: 0.05, Tag: 0.2, YearBias: 0},
	"phantom_fear":       {Genre: 0.7, Rating: 0.05, Popularity: 0.05, Tag: 0.2, YearBias: 0},
	"tranquil_haven":     {Genre: 0.3, Rating: 0.4, Popularity: 0.15, Tag: 0.15, YearBias: 0},
	"heartfelt_harmony":  {Genre: 0.4, Rating: 0.25, Popularity: 0.15, Tag: 0.2, YearBias: 0.1},
	"somber_ruminations": {Genre: 0.3, Rating: 0.4, Popularity: 0.05, Tag: 0.25, YearBias: 0},
	"cosmic_emptiness":   {Genre: 0.5, Rating: 0.2, Popularity: 0.05, Tag: 0.25, YearBias: 0},
	"timeworn_echoes":    {Genre: 0.3, Rating: 0.3, Popularity: 0.15, Tag: 0.25, YearBias: -0.15},
	"wonder_hunt":        {Genre: 0.4, Rating: 0.3, Popularity: 0.05, Tag: 0.25, YearBias: 0.05},
}

// Enhancer re-weights a base mood score with rating, popularity, tag and
// release-year signals using mood-specific weights.
type Enhancer struct {
	now func() time.Time
}

// NewEnhancer returns an enhancer using the wall clock for year-age
// calculations.
func NewEnhancer() *Enhancer {
	return &Enhancer{now: time.Now}
}

// NewEnhancerAt pins the enhancer's clock. Intended for tests.
func NewEnhancerAt(now time.Time) *Enhancer {
	return &Enhancer{now: func() time.Time { return now }}
}

// TagScore converts keyword matches into a 0..1 score with diminishing
// returns.
func (e *Enhancer) TagScore(m *catalog.Movie, p *Profile) float64 {
	matches := 0
	for _, t := range m.Tags {
		if p.MatchesKeyword(t) {
			matches++
		}
	}
	switch {
	case matches == 0:
		return 0
	case matches == 1:
		return 0.4
	case matches == 2:
		return 0.7
	case matches == 3:
		return 0.9
	default:
		return math.Min(1.0, 0.9+0.05*float64(matches-3))
	}
}

// Enhance blends base (the pipeline score) with the mood-weighted signals.
// Moods without a weight table pass the base score through unchanged. The
// result is floored at 0.1 so a scored candidate never vanishes entirely.
func (e *Enhancer) Enhance(m *catalog.Movie, p *Profile, base float64) float64 {
	w, ok := moodWeights[p.ID]
	if !ok {
		return base
	}

	score := base * w.Genre

	if m.AvgRating > 0 {
		score += (m.AvgRating / 5.0) * w.Rating
	}
	if m.NumRatings > 0 {
		popFactor := math.Min(math.Log1p(float64(m.NumRatings))/8.0, 1.0)
		score += popFactor * w.Popularity
	}
	score += e.TagScore(m, p) * w.Tag

	if m.Year > 0 && w.YearBias != 0 {
		yearsOld := float64(e.now().Year() - m.Year)
		score += w.YearBias * (yearsOld / 40.0)
	}

	return math.Max(0.1, score)
}
