// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package engine

import (
	"sort"

	"github.com/moodbinge/moodbinge/internal/cf"
)

// FusionWeights blends the three recommendation signals. Weights are
// renormalized to sum to 1 before use.
type FusionWeights struct {
	Mood          float64 `json:"mood"`
	Collaborative float64 `json:"collaborative"`
	Popularity    float64 `json:"popularity"`
}

// Default weight sets. Anonymous requests carry no collaborative signal.
var (
	AnonymousWeights = FusionWeights{Mood: 0.7, Collaborative: 0, Popularity: 0.3}
	UserWeights      = FusionWeights{Mood: 0.5, Collaborative: 0.4, Popularity: 0.1}
)

func (w FusionWeights) normalized() FusionWeights {
	total := w.Mood + w.Collaborative + w.Popularity
	if total == 0 {
		return AnonymousWeights
	}
	return FusionWeights{
		Mood:          w.Mood / total,
		Collaborative: w.Collaborative / total,
		Popularity:    w.Popularity / total,
	}
}

// fuser combines mood scores with collaborative predictions and the
// popularity baseline.
type fuser struct {
	model *cf.Model
}

// normalizeScore maps a 0..5-ish score into 0..1.
func normalizeScore(s float64) float64 {
	n := s / 5.0
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// fuse blends moodScores (movie id -> raw pipeline score) with the
// collaborative and popularity signals and returns ids ranked by the fused
// score. When the collaborative model cannot serve the user, its weight
// shifts to the mood signal rather than failing the request.
func (f *fuser) fuse(moodScores map[int]float64, userID, n int, weights FusionWeights) []cf.Scored {
	w := weights.normalized()

	collabScores := make(map[int]float64)
	if userID != 0 && w.Collaborative > 0 {
		if f.model != nil && f.model.IsTrained() {
			for _, s := range f.model.RecommendForUser(userID, n*2, true) {
				collabScores[s.MovieID] = normalizeScore(s.Score)
			}
		}
		if len(collabScores) == 0 {
			w.Mood += w.Collaborative
			w.Collaborative = 0
		}
	}

	popScores := make(map[int]float64)
	if f.model != nil && f.model.IsTrained() {
		for _, s := range f.model.PopularMovies(n * 2) {
			popScores[s.MovieID] = normalizeScore(s.Score)
		}
	}

	combined := make(map[int]float64, len(moodScores))
	for id, s := range moodScores {
		combined[id] = w.Mood * normalizeScore(s)
	}
	for id, s := range collabScores {
		combined[id] += w.Collaborative * s
	}
	for id, s := range popScores {
		combined[id] += w.Popularity * s
	}

	out := make([]cf.Scored, 0, len(combined))
	for id, s := range combined {
		out = append(out, cf.Scored{MovieID: id, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].MovieID < out[j].MovieID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
