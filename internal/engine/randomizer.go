// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"
)

// DefaultRandomizationStrength controls how far the randomizer may move a
// candidate's score.
const DefaultRandomizationStrength = 0.25

// randomizer perturbs candidate scores deterministically per session:
// the same session always sees the same shuffle, different sessions see
// different ones.
type randomizer struct {
	baseSeed int64
}

// newRandomizer creates a randomizer. baseSeed 0 seeds from the clock,
// which is the production mode; tests pass a fixed seed.
func newRandomizer(baseSeed int64) *randomizer {
	if baseSeed == 0 {
		baseSeed = time.Now().Unix()
	}
	return &randomizer{baseSeed: baseSeed}
}

// sessionRNG derives a deterministic RNG for a session.
func (r *randomizer) sessionRNG(sessionID string) *rand.Rand {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d_%s", r.baseSeed, sessionID)))
	seed := int64(binary.BigEndian.Uint64(sum[:8]) & (1<<63 - 1))
	return rand.New(rand.NewSource(seed))
}

// apply reranks candidates in place: each keeps most of its score
// (preservation grows with strength), gains a bounded random boost, and
// occasionally a small decade bonus for temporal variety. Every term
// scales with strength, so strength 0 leaves the ordering unchanged.
func (r *randomizer) apply(cands []*candidate, sessionID string, strength float64) {
	if len(cands) == 0 || sessionID == "" {
		return
	}
	rng := r.sessionRNG(sessionID)
	preservation := 0.75 + strength*0.15

	for _, c := range cands {
		boost := rng.Float64() * strength

		// 0.32*strength yields the 0.08 ceiling at the default strength.
		var decadeBonus float64
		if c.movie.Year > 0 {
			if rng.Float64() < 0.3 {
				decadeBonus = rng.Float64() * 0.32 * strength
			}
		}

		orig := c.rank
		c.rank = orig*preservation + orig*boost + decadeBonus
	}
}
