// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

// Package cf implements item-item and user-user collaborative filtering over
// the catalog's rating matrix using cosine similarity on sparse vectors.
package cf

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMinUserRatings is the minimum number of ratings a user must have to
// participate in the model. Sparse raters add noise, not signal.
const DefaultMinUserRatings = 5

// Scored pairs a movie id with a similarity or predicted-rating score.
type Scored struct {
	MovieID int     `json:"movie_id"`
	Score   float64 `json:"score"`
}

// Model is a trained collaborative-filtering model. Train must complete
// before any query method is called; afterwards the model is immutable and
// safe for concurrent use.
type Model struct {
	minUserRatings int

	// itemVectors maps movieID -> userID -> rating.
	itemVectors map[int]map[int]float64
	// userVectors maps userID -> movieID -> rating.
	userVectors map[int]map[int]float64

	itemNorms map[int]float64
	userNorms map[int]float64

	// popular is the precomputed popularity-ranked fallback list.
	popular []Scored

	trained   bool
	trainedAt time.Time
	mu        sync.RWMutex

	logger zerolog.Logger
}

// New creates an untrained model. minUserRatings <= 0 selects the default.
func New(minUserRatings int, logger zerolog.Logger) *Model {
	if minUserRatings <= 0 {
		minUserRatings = DefaultMinUserRatings
	}
	return &Model{
		minUserRatings: minUserRatings,
		logger:         logger.With().Str("component", "cf").Logger(),
	}
}

// Train builds the sparse vectors and norm tables from the rating matrix.
// Norm computation is chunked across workers; ctx cancels a long build.
func (m *Model) Train(ctx context.Context, userRatings map[int]map[int]float64) error {
	start := time.Now()

	userVectors := make(map[int]map[int]float64)
	itemVectors := make(map[int]map[int]float64)
	for userID, ratings := range userRatings {
		if len(ratings) < m.minUserRatings {
			continue
		}
		uv := make(map[int]float64, len(ratings))
		for movieID, r := range ratings {
			uv[movieID] = r
			if itemVectors[movieID] == nil {
				itemVectors[movieID] = make(map[int]float64)
			}
			itemVectors[movieID][userID] = r
		}
		userVectors[userID] = uv
	}

	itemNorms, err := computeNorms(ctx, itemVectors)
	if err != nil {
		return err
	}
	userNorms, err := computeNorms(ctx, userVectors)
	if err != nil {
		return err
	}

	popular := buildPopularityRanking(userRatings)

	m.mu.Lock()
	m.userVectors = userVectors
	m.itemVectors = itemVectors
	m.itemNorms = itemNorms
	m.userNorms = userNorms
	m.popular = popular
	m.trained = true
	m.trainedAt = time.Now()
	m.mu.Unlock()

	m.logger.Info().
		Int("users", len(userVectors)).
		Int("movies", len(itemVectors)).
		Dur("elapsed", time.Since(start)).
		Msg("Collaborative model trained")
	return nil
}

// IsTrained reports whether Train has completed successfully.
func (m *Model) IsTrained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

// TrainedAt returns when the model was last trained.
func (m *Model) TrainedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trainedAt
}

// computeNorms calculates the L2 norm of every vector, chunked across
// GOMAXPROCS workers.
func computeNorms(ctx context.Context, vectors map[int]map[int]float64) (map[int]float64, error) {
	ids := make([]int, 0, len(vectors))
	for id := range vectors {
		ids = append(ids, id)
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(ids) {
		workers = len(ids)
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (len(ids) + workers - 1) / workers

	norms := make(map[int]float64, len(ids))
	var normsMu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(ids) {
			hi = len(ids)
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(part []int) {
			defer wg.Done()
			local := make(map[int]float64, len(part))
			for _, id := range part {
				var sum float64
				for _, v := range vectors[id] {
					sum += v * v
				}
				local[id] = math.Sqrt(sum)
			}
			normsMu.Lock()
			for id, n := range local {
				norms[id] = n
			}
			normsMu.Unlock()
		}(ids[lo:hi])
	}
	wg.Wait()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return norms, nil
}

// cosine computes the cosine similarity of two sparse vectors given their
// precomputed norms. Iterates the smaller vector.
func cosine(a, b map[int]float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for k, va := range a {
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	return dot / (normA * normB)
}

// SimilarMovies returns up to n movies most similar to movieID by rating
// co-occurrence, highest similarity first. The movie itself is never
// included; an unknown id yields an empty slice.
func (m *Model) SimilarMovies(movieID, n int) []Scored {
	m.mu.RLock()
	defer m.mu.RUnlock()

	target, ok := m.itemVectors[movieID]
	if !ok {
		return nil
	}
	targetNorm := m.itemNorms[movieID]

	scored := make([]Scored, 0, len(m.itemVectors))
	for id, vec := range m.itemVectors {
		if id == movieID {
			continue
		}
		sim := cosine(target, vec, targetNorm, m.itemNorms[id])
		if sim > 0 {
			scored = append(scored, Scored{MovieID: id, Score: sim})
		}
	}
	sortScored(scored)
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// RecommendForUser predicts ratings for userID as the similarity-weighted
// average of ratings from positively similar users. Unknown users fall back
// to the popularity ranking. excludeRated drops movies the user already
// rated.
func (m *Model) RecommendForUser(userID, n int, excludeRated bool) []Scored {
	m.mu.RLock()
	defer m.mu.RUnlock()

	target, ok := m.userVectors[userID]
	if !ok {
		return m.popularTop(n)
	}
	targetNorm := m.userNorms[userID]

	weighted := make(map[int]float64)
	simSums := make(map[int]float64)
	for otherID, vec := range m.userVectors {
		if otherID == userID {
			continue
		}
		sim := cosine(target, vec, targetNorm, m.userNorms[otherID])
		if sim <= 0 {
			continue
		}
		for movieID, r := range vec {
			weighted[movieID] += sim * r
			simSums[movieID] += sim
		}
	}

	scored := make([]Scored, 0, len(weighted))
	for movieID, w := range weighted {
		if excludeRated {
			if _, rated := target[movieID]; rated {
				continue
			}
		}
		if s := simSums[movieID]; s > 0 {
			pred := w / s
			if pred > 0 {
				scored = append(scored, Scored{MovieID: movieID, Score: pred})
			}
		}
	}
	sortScored(scored)
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// PopularMovies returns the popularity-ranked fallback list.
func (m *Model) PopularMovies(n int) []Scored {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.popularTop(n)
}

func (m *Model) popularTop(n int) []Scored {
	if len(m.popular) <= n {
		out := make([]Scored, len(m.popular))
		copy(out, m.popular)
		return out
	}
	out := make([]Scored, n)
	copy(out, m.popular[:n])
	return out
}

// buildPopularityRanking scores every rated movie by avg*0.7 +
// log1p(count)*0.3, the blend that keeps acclaimed-but-niche titles
// competitive with heavily rated ones.
func buildPopularityRanking(userRatings map[int]map[int]float64) []Scored {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, ratings := range userRatings {
		for movieID, r := range ratings {
			sums[movieID] += r
			counts[movieID]++
		}
	}
	out := make([]Scored, 0, len(sums))
	for movieID, sum := range sums {
		c := counts[movieID]
		avg := sum / float64(c)
		out = append(out, Scored{
			MovieID: movieID,
			Score:   avg*0.7 + math.Log1p(float64(c))*0.3,
		})
	}
	sortScored(out)
	return out
}

// sortScored orders by score descending with movie id as a stable
// tie-breaker so results are reproducible.
func sortScored(s []Scored) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].MovieID < s[j].MovieID
	})
}
