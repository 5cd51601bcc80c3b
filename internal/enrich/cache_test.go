// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package enrich

import (
	"testing"
	"time"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c := NewCache()
	t.Cleanup(c.Close)
	return c
}

func TestCacheHitMissStates(t *testing.T) {
	c := newTestCache(t)

	if _, state := c.Get(1); state != CacheMiss {
		t.Fatalf("empty cache returned state %v, want miss", state)
	}

	c.SetPositive(1, Metadata{TMDBID: 1, Overview: "plot"})
	meta, state := c.Get(1)
	if state != CacheHit {
		t.Fatalf("state = %v, want hit", state)
	}
	if meta.Overview != "plot" {
		t.Errorf("overview = %q", meta.Overview)
	}

	c.SetNegative(2, NegativeTTL)
	if _, state := c.Get(2); state != CacheNegative {
		t.Errorf("state = %v, want negative", state)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	c.SetNegative(5, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, state := c.Get(5); state != CacheMiss {
		t.Errorf("expired entry returned state %v, want miss", state)
	}
}

func TestCacheStats(t *testing.T) {
	c := newTestCache(t)
	c.Get(1) // miss
	c.SetPositive(1, Metadata{TMDBID: 1})
	c.Get(1) // hit
	c.Get(1) // hit

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.TotalKeys != 1 {
		t.Errorf("stats = %+v, want 2 hits, 1 miss, 1 key", s)
	}
	if got := s.HitRate(); got < 66.6 || got > 66.7 {
		t.Errorf("hit rate = %.2f, want ~66.67", got)
	}
}

func TestCacheEviction(t *testing.T) {
	c := newTestCache(t)
	c.SetPositive(1, Metadata{TMDBID: 1})
	c.SetNegative(2, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	c.evictExpired(time.Now())
	s := c.Stats()
	if s.Evictions != 1 || s.TotalKeys != 1 {
		t.Errorf("stats after eviction = %+v, want 1 eviction, 1 key", s)
	}
}
