// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package enrich

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodbinge/moodbinge/internal/metrics"
)

// MetadataClient is the upstream surface the fetcher needs. *Client
// implements it; tests substitute a stub.
type MetadataClient interface {
	MovieDetails(ctx context.Context, tmdbID int64) (Metadata, error)
}

// FetcherConfig tunes the batching behavior.
type FetcherConfig struct {
	// BatchSize is how many ids are fetched concurrently per batch.
	BatchSize int `json:"batch_size"`
	// IntraBatchDelay staggers request starts within a batch.
	IntraBatchDelay time.Duration `json:"intra_batch_delay"`
	// BatchDelay separates consecutive batches.
	BatchDelay time.Duration `json:"batch_delay"`
	// BatchTimeout bounds one batch; stragglers are cancelled and the
	// batch's partial results are kept.
	BatchTimeout time.Duration `json:"batch_timeout"`
	// OverallTimeout bounds a whole FetchBatch call.
	OverallTimeout time.Duration `json:"overall_timeout"`
	// Sync disables concurrency and inter-request pacing entirely: ids are
	// fetched one at a time on the caller's goroutine. Used as the
	// degraded fallback path and by tests.
	Sync bool `json:"sync"`
}

// DefaultFetcherConfig returns the production batching parameters.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		BatchSize:       5,
		IntraBatchDelay: 100 * time.Millisecond,
		BatchDelay:      time.Second,
		BatchTimeout:    20 * time.Second,
		OverallTimeout:  45 * time.Second,
	}
}

// Fetcher resolves TMDB ids to metadata through the cache, batching cache
// misses against the upstream client. It is the single fetch path for both
// the concurrent and the synchronous mode.
type Fetcher struct {
	client  MetadataClient
	cache   *Cache
	regions *RegionIndex
	cfg     FetcherConfig
	logger  zerolog.Logger
}

// NewFetcher builds a fetcher. cache and regions must be non-nil.
func NewFetcher(client MetadataClient, cache *Cache, regions *RegionIndex, cfg FetcherConfig, logger zerolog.Logger) *Fetcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	return &Fetcher{
		client:  client,
		cache:   cache,
		regions: regions,
		cfg:     cfg,
		logger:  logger.With().Str("component", "enrich").Logger(),
	}
}

// FetchBatch resolves metadata for tmdbIDs. The result contains only ids
// with real metadata; callers apply Placeholder for the rest. The call is
// best-effort: timeouts and upstream failures shrink the result instead of
// failing it.
func (f *Fetcher) FetchBatch(ctx context.Context, tmdbIDs []int64) map[int64]Metadata {
	if f.cfg.OverallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.OverallTimeout)
		defer cancel()
	}

	out := make(map[int64]Metadata, len(tmdbIDs))
	var misses []int64
	seen := make(map[int64]struct{}, len(tmdbIDs))
	for _, id := range tmdbIDs {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		meta, state := f.cache.Get(id)
		switch state {
		case CacheHit:
			metrics.MetadataCacheHits.Inc()
			out[id] = meta
		case CacheNegative:
			metrics.MetadataCacheHits.Inc()
			// known missing: leave out of the result, no fetch
		default:
			metrics.MetadataCacheMisses.Inc()
			misses = append(misses, id)
		}
	}
	if len(misses) == 0 {
		return out
	}

	if f.cfg.Sync {
		for _, id := range misses {
			if meta, ok := f.fetchOne(ctx, id); ok {
				out[id] = meta
			}
			if ctx.Err() != nil {
				break
			}
		}
		return out
	}

	for start := 0; start < len(misses); start += f.cfg.BatchSize {
		end := start + f.cfg.BatchSize
		if end > len(misses) {
			end = len(misses)
		}
		f.fetchConcurrent(ctx, misses[start:end], out)

		if ctx.Err() != nil {
			break
		}
		if end < len(misses) && f.cfg.BatchDelay > 0 {
			select {
			case <-time.After(f.cfg.BatchDelay):
			case <-ctx.Done():
				return out
			}
		}
	}
	return out
}

// fetchConcurrent runs one batch with its own timeout. Each request start is
// staggered; whatever completed when the batch deadline hits is kept.
func (f *Fetcher) fetchConcurrent(ctx context.Context, ids []int64, out map[int64]Metadata) {
	batchCtx := ctx
	if f.cfg.BatchTimeout > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, f.cfg.BatchTimeout)
		defer cancel()
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, id := range ids {
		if batchCtx.Err() != nil {
			break
		}
		if i > 0 && f.cfg.IntraBatchDelay > 0 {
			select {
			case <-time.After(f.cfg.IntraBatchDelay):
			case <-batchCtx.Done():
			}
		}
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if meta, ok := f.fetchOne(batchCtx, id); ok {
				mu.Lock()
				out[id] = meta
				mu.Unlock()
			}
		}(id)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-batchCtx.Done():
		f.logger.Warn().Int("batch", len(ids)).Msg("Batch timed out, keeping partial results")
		<-done // goroutines exit promptly once their context is cancelled
	}
}

// fetchOne fetches a single id and maintains the cache and region index.
func (f *Fetcher) fetchOne(ctx context.Context, tmdbID int64) (Metadata, bool) {
	meta, err := f.client.MovieDetails(ctx, tmdbID)
	switch {
	case err == nil:
		f.cache.SetPositive(tmdbID, meta)
		f.regions.Observe(meta)
		return meta, true
	case errors.Is(err, ErrNotFound):
		f.cache.SetNegative(tmdbID, NegativeTTL)
	case ctx.Err() != nil:
		// cancelled mid-flight: do not poison the cache
	default:
		f.cache.SetNegative(tmdbID, FailureTTL)
		f.logger.Debug().Err(err).Int64("tmdb_id", tmdbID).Msg("Metadata fetch failed")
	}
	return Metadata{}, false
}

var _ Source = (*Fetcher)(nil)
