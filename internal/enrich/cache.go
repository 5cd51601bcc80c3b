// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package enrich

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// PositiveTTL is how long fetched metadata stays fresh.
	PositiveTTL = time.Hour
	// NegativeTTL is how long a known-missing id (404/400) is remembered,
	// so repeat requests stay off the network.
	NegativeTTL = 5 * time.Minute
	// FailureTTL is the short negative TTL after retry exhaustion; the
	// upstream may recover quickly, so we retry sooner.
	FailureTTL = time.Minute

	cacheCleanupInterval = 5 * time.Minute
)

type cacheEntry struct {
	meta      Metadata
	positive  bool
	expiresAt time.Time
}

// CacheState classifies a cache lookup.
type CacheState int

const (
	// CacheMiss means the id is unknown or its entry expired.
	CacheMiss CacheState = iota
	// CacheHit means fresh metadata was found.
	CacheHit
	// CacheNegative means the id is known to have no metadata right now.
	CacheNegative
)

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      uint64 `json:"cache_hits"`
	Misses    uint64 `json:"cache_misses"`
	Evictions uint64 `json:"evictions"`
	TotalKeys int    `json:"cached_items"`
}

// HitRate returns the hit percentage, 0 when no lookups happened.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Cache is a TTL cache for movie metadata with negative caching. Safe for
// concurrent use. Call Close to stop the background cleanup loop.
type Cache struct {
	mu      sync.RWMutex
	entries map[int64]cacheEntry

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewCache creates a cache and starts its cleanup loop.
func NewCache() *Cache {
	c := &Cache{
		entries: make(map[int64]cacheEntry),
		stopCh:  make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// Get looks up tmdbID, counting the lookup in the hit/miss stats.
func (c *Cache) Get(tmdbID int64) (Metadata, CacheState) {
	c.mu.RLock()
	e, ok := c.entries[tmdbID]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		c.misses.Add(1)
		return Metadata{}, CacheMiss
	}
	c.hits.Add(1)
	if !e.positive {
		return e.meta, CacheNegative
	}
	return e.meta, CacheHit
}

// SetPositive stores fetched metadata with the standard positive TTL.
func (c *Cache) SetPositive(tmdbID int64, meta Metadata) {
	c.set(tmdbID, cacheEntry{meta: meta, positive: true, expiresAt: time.Now().Add(PositiveTTL)})
}

// SetNegative remembers that tmdbID has no metadata for the given TTL.
func (c *Cache) SetNegative(tmdbID int64, ttl time.Duration) {
	c.set(tmdbID, cacheEntry{meta: Placeholder(tmdbID), expiresAt: time.Now().Add(ttl)})
}

func (c *Cache) set(tmdbID int64, e cacheEntry) {
	c.mu.Lock()
	c.entries[tmdbID] = e
	c.mu.Unlock()
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	keys := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		TotalKeys: keys,
	}
}

// Close stops the cleanup loop.
func (c *Cache) Close() {
	close(c.stopCh)
	c.wg.Wait()
}

func (c *Cache) cleanupLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(cacheCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evictExpired(time.Now())
		case <-c.stopCh:
			return
		}
	}
}

func (c *Cache) evictExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
			c.evictions.Add(1)
		}
	}
}
