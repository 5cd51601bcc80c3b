// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package engine

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodbinge/moodbinge/internal/catalog"
	"github.com/moodbinge/moodbinge/internal/cf"
	"github.com/moodbinge/moodbinge/internal/enrich"
	"github.com/moodbinge/moodbinge/internal/metrics"
	"github.com/moodbinge/moodbinge/internal/mood"
	"github.com/moodbinge/moodbinge/internal/session"
)

const (
	// DefaultCount is the number of recommendations when the request does
	// not say.
	DefaultCount = 10
	// MaxCount bounds a single request.
	MaxCount = 50

	// minRatingsDiverse is the rating-count floor for the diversity path.
	minRatingsDiverse = 3
	// minRatingsClassic is the stricter floor for the classic path.
	minRatingsClassic = 5
	// classicCutoff drops weak classic-path candidates.
	classicCutoff = 0.5

	// candidatePoolCap bounds the enhanced path's working pool.
	candidatePoolCap = 50

	// underrepresentedBoost promotes films from underrepresented regions
	// during candidate scoring.
	underrepresentedBoost = 1.25
)

// Config carries the engine's tunables.
type Config struct {
	// RandomSeed seeds exploration and session randomization. Zero means
	// seed from the clock.
	RandomSeed int64 `json:"random_seed"`
	// RandomizationStrength is passed to the session randomizer.
	RandomizationStrength float64 `json:"randomization_strength"`
	// Exploration enables the random exploration boost during scoring.
	Exploration bool `json:"exploration"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		RandomizationStrength: DefaultRandomizationStrength,
		Exploration:           true,
	}
}

// RecommendationsSource is the optional upstream similar-movies signal.
// *enrich.Client implements it.
type RecommendationsSource interface {
	Recommendations(ctx context.Context, tmdbID int64, n int) ([]enrich.Metadata, error)
}

// Deps are the engine's collaborators.
type Deps struct {
	Catalog  *catalog.Store
	Moods    *mood.Registry
	Model    *cf.Model
	Sessions *session.Tracker
	Meta     enrich.Source
	Cache    *enrich.Cache
	Regions  RegionLookup
	// Recs may be nil; similar-movies then skips the upstream signal.
	Recs   RecommendationsSource
	Logger zerolog.Logger
}

// Engine serves recommendations. Safe for concurrent use; shared mutable
// state (sessions, caches, the region index) lives in collaborators that
// guard their own.
type Engine struct {
	cfg Config

	catalog  *catalog.Store
	moods    *mood.Registry
	model    *cf.Model
	sessions *session.Tracker
	meta     enrich.Source
	cache    *enrich.Cache
	regions  RegionLookup
	recs     RecommendationsSource

	diversityScorer *mood.Scorer
	classicScorer   *mood.Scorer
	enhancer        *mood.Enhancer
	fuse            *fuser
	random          *randomizer

	logger zerolog.Logger
}

// New assembles an engine from its dependencies.
func New(cfg Config, deps Deps) *Engine {
	if cfg.RandomizationStrength <= 0 {
		cfg.RandomizationStrength = DefaultRandomizationStrength
	}
	var explorationRNG *rand.Rand
	if cfg.Exploration {
		seed := cfg.RandomSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		explorationRNG = rand.New(rand.NewSource(seed))
	}
	return &Engine{
		cfg:             cfg,
		catalog:         deps.Catalog,
		moods:           deps.Moods,
		model:           deps.Model,
		sessions:        deps.Sessions,
		meta:            deps.Meta,
		cache:           deps.Cache,
		regions:         deps.Regions,
		recs:            deps.Recs,
		diversityScorer: mood.NewScorer(mood.DiversityStages(explorationRNG)...),
		classicScorer:   mood.NewScorer(mood.ClassicStages()...),
		enhancer:        mood.NewEnhancer(),
		fuse:            &fuser{model: deps.Model},
		random:          newRandomizer(cfg.RandomSeed),
		logger:          deps.Logger.With().Str("component", "engine").Logger(),
	}
}

// Moods returns the selectable mood profiles.
func (e *Engine) Moods() []*mood.Profile {
	return e.moods.List()
}

// Recommend serves the main recommendation operation. A session id selects
// the enhanced path (anti-repetition, enhanced scoring, randomization);
// without one the diversity-ranked list is returned directly. Results are
// always enriched.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]Recommendation, error) {
	profile, ok := e.moods.Get(req.Mood)
	if !ok {
		return nil, ErrUnknownMood
	}
	n := clampCount(req.Count)
	start := time.Now()

	var picked []*candidate
	path := "classic"
	if req.SessionID != "" {
		picked = e.enhancedPick(profile, n, req.SessionID, req.UserID)
		if len(picked) > 0 {
			path = "enhanced"
		} else {
			// Enhanced path produced nothing (e.g. catalog exhausted for
			// this session); serve the diversity ranking instead.
			metrics.RecommendationsDegraded.Inc()
			picked = e.diversityPick(profile, n, req.UserID)
		}
	} else {
		picked = e.diversityPick(profile, n, req.UserID)
	}

	out := e.enrichCandidates(ctx, picked)
	metrics.RecordRecommendation(profile.ID, path, time.Since(start))
	e.logger.Debug().
		Str("mood", profile.ID).
		Str("path", path).
		Int("count", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("Recommendations served")
	return out, nil
}

// OriginalRecommendations serves the classic ranking: straight mood scoring
// with the combined rating/popularity factor, no session features and no
// diversity selection.
func (e *Engine) OriginalRecommendations(ctx context.Context, moodID string, count int) ([]Recommendation, error) {
	profile, ok := e.moods.Get(moodID)
	if !ok {
		return nil, ErrUnknownMood
	}
	n := clampCount(count)

	var cands []*candidate
	for _, m := range e.catalog.All() {
		if m.NumRatings < minRatingsClassic {
			continue
		}
		score := e.classicScorer.Score(m, profile)
		if score <= classicCutoff {
			continue
		}
		cands = append(cands, &candidate{movie: m, score: score, rank: score})
	}
	sortByRank(cands)
	if len(cands) > n {
		cands = cands[:n]
	}
	return e.enrichCandidates(ctx, cands), nil
}

// SimilarMovies returns movies similar to movieID. The collaborative model
// is the primary signal; the upstream recommendation feed and a genre
// overlap fallback cover movies the model does not know. An id absent from
// the catalog yields an empty list.
func (e *Engine) SimilarMovies(ctx context.Context, movieID, count int) ([]Recommendation, error) {
	if movieID <= 0 {
		return nil, ErrInvalidID
	}
	n := clampCount(count)

	target, ok := e.catalog.Movie(movieID)
	if !ok {
		return []Recommendation{}, nil
	}

	if e.model != nil && e.model.IsTrained() {
		if scored := e.model.SimilarMovies(movieID, n); len(scored) > 0 {
			cands := make([]*candidate, 0, len(scored))
			for _, s := range scored {
				if m, ok := e.catalog.Movie(s.MovieID); ok {
					cands = append(cands, &candidate{movie: m, score: s.Score, rank: s.Score})
				}
			}
			return e.enrichCandidates(ctx, cands), nil
		}
	}

	if e.recs != nil && target.TMDBID != 0 {
		if recs, err := e.recs.Recommendations(ctx, target.TMDBID, n); err == nil && len(recs) > 0 {
			return e.fromUpstreamRecs(recs), nil
		} else if err != nil {
			e.logger.Debug().Err(err).Int("movie_id", movieID).Msg("Upstream similar-movies failed")
		}
	}

	return e.enrichCandidates(ctx, e.genreSimilar(target, n)), nil
}

// MovieDetails returns one catalog movie joined with its metadata.
func (e *Engine) MovieDetails(ctx context.Context, movieID int) (Recommendation, error) {
	if movieID <= 0 {
		return Recommendation{}, ErrInvalidID
	}
	m, ok := e.catalog.Movie(movieID)
	if !ok {
		return Recommendation{}, ErrMovieNotFound
	}
	out := e.enrichCandidates(ctx, []*candidate{{movie: m, score: 0, rank: 0}})
	return out[0], nil
}

// SessionStats reports a session's history summary.
func (e *Engine) SessionStats(sessionID string) (session.Stats, bool) {
	return e.sessions.Stats(sessionID)
}

// CacheStats reports metadata cache efficiency.
func (e *Engine) CacheStats() enrich.Stats {
	return e.cache.Stats()
}

// enhancedPick runs the session-aware pipeline: exclusion filtering over a
// 3x candidate pool, enhanced mood scoring, session-seeded randomization and
// a final diversity pass, then records what was shown.
func (e *Engine) enhancedPick(profile *mood.Profile, n int, sessionID string, userID int) []*candidate {
	excluded := e.sessions.Exclusions(sessionID, profile.ID)

	poolSize := n * 3
	if poolSize > candidatePoolCap {
		poolSize = candidatePoolCap
	}
	pool := e.diversityPick(profile, poolSize, userID)

	available := make([]*candidate, 0, len(pool))
	for _, c := range pool {
		if _, skip := excluded[c.movie.ID]; !skip {
			available = append(available, c)
		}
	}
	// Not enough fresh movies: allow repetition rather than starving the
	// response.
	if len(available) < n {
		limit := n * 2
		if limit > len(pool) {
			limit = len(pool)
		}
		available = pool[:limit]
	}

	for _, c := range available {
		c.rank = e.enhancer.Enhance(c.movie, profile, c.score)
	}
	sortByRank(available)

	limit := n * 2
	if limit > len(available) {
		limit = len(available)
	}
	available = available[:limit]
	e.random.apply(available, sessionID, e.cfg.RandomizationStrength)
	sortByRank(available)

	final := finalDiverseSelect(available, n)

	ids := make([]int, len(final))
	for i, c := range final {
		ids[i] = c.movie.ID
	}
	e.sessions.Record(sessionID, profile.ID, ids)
	metrics.ActiveSessions.Set(float64(e.sessions.Len()))
	return final
}

// diversityPick scores the catalog for the profile, fuses in the
// popularity signal (and collaborative scores for a known user), then
// applies diversity selection.
func (e *Engine) diversityPick(profile *mood.Profile, n int, userID int) []*candidate {
	byID := make(map[int]*candidate)
	var cands []*candidate
	for _, m := range e.catalog.All() {
		if m.NumRatings < minRatingsDiverse {
			continue
		}
		score := e.diversityScorer.Score(m, profile)
		if score <= 0 {
			continue
		}
		if e.regions != nil && m.TMDBID != 0 && e.regions.IsUnderrepresented(m.TMDBID) {
			score *= underrepresentedBoost
		}
		c := &candidate{movie: m, score: score, rank: score}
		cands = append(cands, c)
		byID[m.ID] = c
	}

	weights := AnonymousWeights
	if userID != 0 {
		weights = UserWeights
	}
	moodScores := make(map[int]float64, len(cands))
	for _, c := range cands {
		moodScores[c.movie.ID] = c.score
	}
	fused := e.fuse.fuse(moodScores, userID, len(cands)+n, weights)
	reranked := make([]*candidate, 0, len(fused))
	for _, s := range fused {
		if c, ok := byID[s.MovieID]; ok {
			c.rank = s.Score
			reranked = append(reranked, c)
		}
	}
	cands = reranked

	return diversitySelect(cands, n, e.regions)
}

// genreSimilar ranks catalog movies by genre overlap with the target,
// weighted by rating and log popularity.
func (e *Engine) genreSimilar(target *catalog.Movie, n int) []*candidate {
	targetGenres := make(map[string]struct{}, len(target.Genres))
	for _, g := range target.Genres {
		targetGenres[g] = struct{}{}
	}
	if len(targetGenres) == 0 {
		return nil
	}

	var cands []*candidate
	for _, m := range e.catalog.All() {
		if m.ID == target.ID {
			continue
		}
		matching := 0
		for _, g := range m.Genres {
			if _, ok := targetGenres[g]; ok {
				matching++
			}
		}
		if matching == 0 {
			continue
		}
		denom := len(target.Genres)
		if len(m.Genres) > denom {
			denom = len(m.Genres)
		}
		genreScore := float64(matching) / float64(denom)

		ratingScore := 0.5
		if m.AvgRating > 0 {
			ratingScore = m.AvgRating / 5.0
		}
		popFactor := 0.5
		if m.NumRatings > 0 {
			popFactor = logPopularity(m.NumRatings)
		}
		score := genreScore*0.6 + ratingScore*0.25 + popFactor*0.15
		cands = append(cands, &candidate{movie: m, score: score, rank: score})
	}
	sortByRank(cands)
	if len(cands) > n {
		cands = cands[:n]
	}
	return cands
}

// enrichCandidates converts candidates to recommendations and joins TMDB
// metadata, with placeholders where enrichment failed.
func (e *Engine) enrichCandidates(ctx context.Context, cands []*candidate) []Recommendation {
	out := make([]Recommendation, 0, len(cands))
	var tmdbIDs []int64
	for _, c := range cands {
		if c.movie.TMDBID != 0 {
			tmdbIDs = append(tmdbIDs, c.movie.TMDBID)
		}
	}

	var fetched map[int64]enrich.Metadata
	if e.meta != nil && len(tmdbIDs) > 0 {
		fetched = e.meta.FetchBatch(ctx, tmdbIDs)
	}

	for _, c := range cands {
		rec := Recommendation{
			MovieID:    c.movie.ID,
			Title:      c.movie.Title,
			Genres:     c.movie.Genres,
			Year:       c.movie.Year,
			Rating:     c.movie.AvgRating,
			Popularity: c.movie.NumRatings,
			Score:      c.rank,
			TMDBID:     c.movie.TMDBID,
			Overview:   enrich.PlaceholderOverview,
		}
		if meta, ok := fetched[c.movie.TMDBID]; ok {
			rec.PosterPath = meta.PosterPath
			rec.BackdropPath = meta.BackdropPath
			if meta.Overview != "" {
				rec.Overview = meta.Overview
			}
		}
		out = append(out, rec)
	}
	return out
}

// fromUpstreamRecs maps the upstream recommendation feed to the response
// shape, joining catalog data when the TMDB id is known locally.
func (e *Engine) fromUpstreamRecs(recs []enrich.Metadata) []Recommendation {
	tmdbToMovie := make(map[int64]*catalog.Movie)
	for _, m := range e.catalog.All() {
		if m.TMDBID != 0 {
			tmdbToMovie[m.TMDBID] = m
		}
	}

	out := make([]Recommendation, 0, len(recs))
	for _, meta := range recs {
		rec := Recommendation{
			Title:        meta.Title,
			TMDBID:       meta.TMDBID,
			PosterPath:   meta.PosterPath,
			BackdropPath: meta.BackdropPath,
			Overview:     meta.Overview,
			Year:         releaseYear(meta.ReleaseDate),
		}
		if m, ok := tmdbToMovie[meta.TMDBID]; ok {
			rec.MovieID = m.ID
			rec.Genres = m.Genres
			rec.Rating = m.AvgRating
			rec.Popularity = m.NumRatings
		}
		out = append(out, rec)
	}
	return out
}

func clampCount(n int) int {
	if n <= 0 {
		return DefaultCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year := 0
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}

// logPopularity maps a rating count into 0..1 with diminishing returns.
func logPopularity(numRatings int) float64 {
	v := math.Log1p(float64(numRatings)) / 6.0
	if v > 1 {
		return 1
	}
	return v
}
