// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package engine

import (
	"testing"

	"github.com/moodbinge/moodbinge/internal/catalog"
)

func rankedCandidates() []*candidate {
	cands := make([]*candidate, 0, 10)
	for i := 0; i < 10; i++ {
		m := &catalog.Movie{ID: i + 1, Title: "M", Year: 1980 + i*5}
		cands = append(cands, &candidate{movie: m, score: 2.0 - float64(i)*0.1, rank: 2.0 - float64(i)*0.1})
	}
	return cands
}

func ranks(cands []*candidate) []float64 {
	out := make([]float64, len(cands))
	for i, c := range cands {
		out[i] = c.rank
	}
	return out
}

func TestRandomizerDeterministicPerSession(t *testing.T) {
	a := rankedCandidates()
	b := rankedCandidates()

	newRandomizer(7).apply(a, "session-x", 0.25)
	newRandomizer(7).apply(b, "session-x", 0.25)

	ra, rb := ranks(a), ranks(b)
	for i := range ra {
		if ra[i] != rb[i] {
			t.Fatalf("rank %d differs: %v vs %v", i, ra[i], rb[i])
		}
	}
}

func TestRandomizerVariesAcrossSessions(t *testing.T) {
	a := rankedCandidates()
	b := rankedCandidates()

	r := newRandomizer(7)
	r.apply(a, "session-x", 0.25)
	r.apply(b, "session-y", 0.25)

	ra, rb := ranks(a), ranks(b)
	same := true
	for i := range ra {
		if ra[i] != rb[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different sessions produced identical perturbations")
	}
}

func TestRandomizerBounds(t *testing.T) {
	strength := 0.25
	cands := rankedCandidates()
	orig := make([]float64, len(cands))
	for i, c := range cands {
		orig[i] = c.rank
	}

	newRandomizer(3).apply(cands, "session-b", strength)

	preservation := 0.75 + strength*0.15
	for i, c := range cands {
		lo := orig[i] * preservation
		hi := orig[i]*(preservation+strength) + 0.32*strength
		if c.rank < lo || c.rank > hi {
			t.Errorf("candidate %d: rank %v outside [%v, %v]", i, c.rank, lo, hi)
		}
	}
}

func TestRandomizerZeroStrengthPreservesOrder(t *testing.T) {
	cands := rankedCandidates()
	newRandomizer(3).apply(cands, "session-z", 0)
	for i := 1; i < len(cands); i++ {
		if cands[i-1].rank <= cands[i].rank {
			t.Errorf("order disturbed at %d: %v then %v", i, cands[i-1].rank, cands[i].rank)
		}
	}
}

func TestRandomizerNoopWithoutSession(t *testing.T) {
	cands := rankedCandidates()
	orig := ranks(cands)
	newRandomizer(3).apply(cands, "", 0.25)
	for i, r := range ranks(cands) {
		if r != orig[i] {
			t.Fatalf("rank %d changed without a session", i)
		}
	}
}
