// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package mood

import (
	"math"
	"math/rand"
	"sync"

	"github.com/moodbinge/moodbinge/internal/catalog"
)

// Stage is one step of the scoring pipeline. A stage receives the running
// score and returns the adjusted score; returning 0 rejects the movie and
// short-circuits the remaining stages.
type Stage interface {
	Name() string
	Apply(m *catalog.Movie, p *Profile, score float64) float64
}

// Scorer runs a fixed pipeline of stages over a movie/profile pair.
type Scorer struct {
	stages []Stage
}

// NewScorer builds a scorer from the given stages, applied in order.
func NewScorer(stages ...Stage) *Scorer {
	return &Scorer{stages: stages}
}

// Score returns the mood-affinity score for m under profile p.
// A zero result means the movie was rejected.
func (s *Scorer) Score(m *catalog.Movie, p *Profile) float64 {
	score := 1.0
	for _, st := range s.stages {
		score = st.Apply(m, p, score)
		if score == 0 {
			return 0
		}
	}
	return score
}

// DiversityStages is the pipeline used by the diversity-aware ranking path.
// rng seeds the exploration stage; a nil rng disables exploration, which
// makes the pipeline fully deterministic.
func DiversityStages(rng *rand.Rand) []Stage {
	return []Stage{
		GenreStage{},
		TagStage{},
		InversePopularityStage{},
		TemporalStage{},
		NewExplorationStage(rng),
		DramaBalanceStage{},
		QualityStage{},
	}
}

// ClassicStages is the pipeline used by the original (non-diversified)
// ranking path: genre and tag affinity followed by a combined
// rating/popularity factor.
func ClassicStages() []Stage {
	return []Stage{
		GenreStage{},
		TagStage{},
		RatingPopularityStage{},
	}
}

// GenreStage scores primary/secondary/excluded genre membership and rejects
// movies with a poor genre match.
type GenreStage struct{}

func (GenreStage) Name() string { return "genre" }

func (GenreStage) Apply(m *catalog.Movie, p *Profile, score float64) float64 {
	var primary, secondary, excluded int
	for _, g := range m.Genres {
		for _, pg := range p.PrimaryGenres {
			if g == pg {
				primary++
			}
		}
		for _, sg := range p.SecondaryGenres {
			if g == sg {
				secondary++
			}
		}
		for _, xg := range p.ExcludedGenres {
			if g == xg {
				excluded++
			}
		}
	}

	if primary > 0 {
		score *= 1 + 0.5*float64(primary)
	} else {
		score *= 0.5
	}
	if secondary > 0 {
		score *= 1 + 0.2*float64(secondary)
	}
	if excluded > 0 {
		score *= math.Pow(0.3, float64(excluded))
	}

	if score <= 0.2 {
		return 0
	}
	return score
}

// TagStage boosts movies whose community tags overlap the profile's keyword
// set, with diminishing returns.
type TagStage struct{}

func (TagStage) Name() string { return "tags" }

func (TagStage) Apply(m *catalog.Movie, p *Profile, score float64) float64 {
	matches := 0
	for _, t := range m.Tags {
		if p.MatchesKeyword(t) {
			matches++
		}
	}
	switch {
	case matches == 0:
		return score
	case matches == 1:
		return score * 1.2
	case matches == 2:
		return score * 1.35
	default:
		return score * math.Min(1.5, 1.35+0.05*float64(matches-2))
	}
}

// InversePopularityStage boosts less-rated movies so that the catalog's long
// tail surfaces. Movies with fewer ratings receive the larger boost.
type InversePopularityStage struct{}

func (InversePopularityStage) Name() string { return "inverse_popularity" }

func (InversePopularityStage) Apply(m *catalog.Movie, _ *Profile, score float64) float64 {
	if m.NumRatings <= 0 {
		return score
	}
	popFactor := math.Min(math.Log1p(float64(m.NumRatings))/math.Log1p(100), 1.0)
	inverse := 1 - popFactor*0.5
	return score * (1 + inverse*0.3)
}

// TemporalStage boosts underrepresented decades and softens the
// overrepresented 2000s.
type TemporalStage struct{}

func (TemporalStage) Name() string { return "temporal" }

func (TemporalStage) Apply(m *catalog.Movie, _ *Profile, score float64) float64 {
	decade := m.Decade()
	if decade == 0 {
		return score
	}
	if decade < 1970 {
		score *= 1.4
	} else if decade < 1990 {
		score *= 1.2
	}
	if decade >= 2000 && decade <= 2009 {
		score *= 0.85
	}
	return score
}

// ExplorationStage applies a small random boost to 20% of candidates to keep
// the tail of the catalog in circulation. The stage owns its RNG; a nil RNG
// disables it.
type ExplorationStage struct {
	mu  *sync.Mutex
	rng *rand.Rand
}

// NewExplorationStage wraps rng for concurrent use by the scoring pipeline.
func NewExplorationStage(rng *rand.Rand) ExplorationStage {
	return ExplorationStage{mu: &sync.Mutex{}, rng: rng}
}

func (ExplorationStage) Name() string { return "exploration" }

func (e ExplorationStage) Apply(_ *catalog.Movie, _ *Profile, score float64) float64 {
	if e.rng == nil {
		return score
	}
	e.mu.Lock()
	roll, boost := e.rng.Float64(), e.rng.Float64()
	e.mu.Unlock()
	if roll < 0.2 {
		score *= 1 + boost*0.3
	}
	return score
}

// DramaBalanceStage penalizes Drama to keep it from dominating every list.
// The penalty is softer when Drama is a primary genre of the mood.
type DramaBalanceStage struct{}

func (DramaBalanceStage) Name() string { return "drama_balance" }

func (DramaBalanceStage) Apply(m *catalog.Movie, p *Profile, score float64) float64 {
	if !m.HasGenre("Drama") {
		return score
	}
	penalty := 0.25
	if p.HasPrimary("Drama") {
		penalty = 0.15
	}
	return score * (1 - penalty)
}

// QualityStage applies a moderate boost from the average community rating.
type QualityStage struct{}

func (QualityStage) Name() string { return "quality" }

func (QualityStage) Apply(m *catalog.Movie, _ *Profile, score float64) float64 {
	if m.AvgRating <= 0 {
		return score
	}
	return score * (1 + (m.AvgRating/5.0)*0.3)
}

// RatingPopularityStage is the classic combined quality/popularity factor.
// Contemplative moods weight quality over popularity.
type RatingPopularityStage struct{}

func (RatingPopularityStage) Name() string { return "rating_popularity" }

func (RatingPopularityStage) Apply(m *catalog.Movie, p *Profile, score float64) float64 {
	ratingFactor := m.AvgRating / 5.0
	popFactor := math.Min(math.Log1p(float64(m.NumRatings))/6, 0.5)

	if p.ID == "cosmic_emptiness" || p.ID == "wonder_hunt" {
		return score * (1 + ratingFactor*0.6 + popFactor*0.2)
	}
	return score * (1 + ratingFactor*0.4 + popFactor*0.3)
}

// Interface compliance checks.
var (
	_ Stage = GenreStage{}
	_ Stage = TagStage{}
	_ Stage = InversePopularityStage{}
	_ Stage = TemporalStage{}
	_ Stage = ExplorationStage{}
	_ Stage = DramaBalanceStage{}
	_ Stage = QualityStage{}
	_ Stage = RatingPopularityStage{}
)
