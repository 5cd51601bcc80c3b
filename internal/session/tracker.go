// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

// Package session tracks which movies have already been shown so repeated
// requests keep surfacing fresh titles.
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTTL is how long an idle session's history is retained.
	DefaultTTL = 24 * time.Hour
	// maxSessions caps the number of tracked sessions. When a new session
	// arrives at the cap, the session idle the longest is evicted.
	maxSessions = 1000
	// maxGlobalHistory caps the tracker-wide recently-shown list. When
	// exceeded the list is truncated to its most recent half.
	maxGlobalHistory = 1000
	// crossMoodRecent is how many recent movies from each *other* mood are
	// excluded alongside the full history of the requested mood.
	crossMoodRecent = 3
	// globalRecent is how many of the most recently shown movies across
	// all sessions are excluded regardless of mood.
	globalRecent = 15

	cleanupInterval = 10 * time.Minute
)

type sessionState struct {
	// perMood preserves presentation order per mood.
	perMood map[string][]int
	// shown counts every movie presented to this session.
	shown        int
	createdAt    time.Time
	lastActivity time.Time
}

// Stats summarizes one session's history.
type Stats struct {
	SessionID    string         `json:"session_id"`
	MoodCounts   map[string]int `json:"mood_counts"`
	TotalShown   int            `json:"total_shown"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
}

// Tracker records shown movies per session and computes exclusion sets.
// Safe for concurrent use; owned by the engine for its lifecycle.
type Tracker struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
	// recent is the tracker-wide presentation history, newest last. Its
	// tail feeds the global recency window for every session.
	recent []int
	ttl    time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
	logger zerolog.Logger
}

// NewTracker creates a tracker and starts its background expiry loop.
// ttl <= 0 selects DefaultTTL. Call Close to stop the loop.
func NewTracker(ttl time.Duration, logger zerolog.Logger) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	t := &Tracker{
		sessions: make(map[string]*sessionState),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
		logger:   logger.With().Str("component", "session").Logger(),
	}
	t.wg.Add(1)
	go t.cleanupLoop()
	return t
}

// Record appends movieIDs to the session's history for mood, creating the
// session on first use and evicting the stalest session at the cap.
func (t *Tracker) Record(sessionID, mood string, movieIDs []int) {
	if sessionID == "" || len(movieIDs) == 0 {
		return
	}
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.sessions[sessionID]
	if !ok {
		if len(t.sessions) >= maxSessions {
			t.evictStalest()
		}
		st = &sessionState{
			perMood:   make(map[string][]int),
			createdAt: now,
		}
		t.sessions[sessionID] = st
	}
	st.lastActivity = now
	st.perMood[mood] = append(st.perMood[mood], movieIDs...)
	st.shown += len(movieIDs)

	t.recent = append(t.recent, movieIDs...)
	if len(t.recent) > maxGlobalHistory {
		keep := t.recent[len(t.recent)-maxGlobalHistory/2:]
		t.recent = append([]int(nil), keep...)
	}
}

// Exclusions returns the set of movie ids to suppress for a request: the
// most recently shown movies across all sessions, plus — for a known
// session — its full history for the requested mood and the most recent
// few from every other mood.
func (t *Tracker) Exclusions(sessionID, mood string) map[int]struct{} {
	out := make(map[int]struct{})
	if sessionID == "" {
		return out
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	start := len(t.recent) - globalRecent
	if start < 0 {
		start = 0
	}
	for _, id := range t.recent[start:] {
		out[id] = struct{}{}
	}

	st, ok := t.sessions[sessionID]
	if !ok {
		return out
	}

	for _, id := range st.perMood[mood] {
		out[id] = struct{}{}
	}
	for other, ids := range st.perMood {
		if other == mood {
			continue
		}
		start := len(ids) - crossMoodRecent
		if start < 0 {
			start = 0
		}
		for _, id := range ids[start:] {
			out[id] = struct{}{}
		}
	}
	return out
}

// Stats returns the history summary for sessionID, or false when the
// session is unknown or expired.
func (t *Tracker) Stats(sessionID string) (Stats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	st, ok := t.sessions[sessionID]
	if !ok {
		return Stats{}, false
	}
	s := Stats{
		SessionID:    sessionID,
		MoodCounts:   make(map[string]int, len(st.perMood)),
		TotalShown:   st.shown,
		CreatedAt:    st.createdAt,
		LastActivity: st.lastActivity,
	}
	for mood, ids := range st.perMood {
		s.MoodCounts[mood] = len(ids)
	}
	return s, true
}

// Len returns the number of live sessions.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// Close stops the background expiry loop.
func (t *Tracker) Close() {
	close(t.stopCh)
	t.wg.Wait()
}

func (t *Tracker) cleanupLoop() {
	defer t.wg.Done()
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := t.expire(time.Now()); n > 0 {
				t.logger.Debug().Int("expired", n).Msg("Expired idle sessions")
			}
		case <-t.stopCh:
			return
		}
	}
}

// evictStalest drops the session idle the longest. Caller holds t.mu.
func (t *Tracker) evictStalest() {
	var (
		victim string
		oldest time.Time
	)
	for id, st := range t.sessions {
		if victim == "" || st.lastActivity.Before(oldest) {
			victim = id
			oldest = st.lastActivity
		}
	}
	if victim != "" {
		delete(t.sessions, victim)
		t.logger.Debug().Str("session_id", victim).Msg("Evicted stalest session at capacity")
	}
}

// expire removes sessions idle past the TTL and returns how many were
// dropped.
func (t *Tracker) expire(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, st := range t.sessions {
		if now.Sub(st.lastActivity) > t.ttl {
			delete(t.sessions, id)
			n++
		}
	}
	return n
}
