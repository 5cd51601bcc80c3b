// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package engine

import "sort"

const (
	// topScoreShare is the fraction of slots filled purely by score before
	// diversity criteria apply.
	topScoreShare = 0.2
	// internationalShare is the fraction of slots reserved for films from
	// underrepresented regions.
	internationalShare = 0.2
	// diversityWindow bounds how many next-best candidates are considered
	// per diversity-driven pick.
	diversityWindow = 30
	// repeatCap is the per-decade / per-genre / per-country count past
	// which a candidate stops being "diverse".
	repeatCap = 2
)

// diversityTracker counts the attributes already present in a selection.
type diversityTracker struct {
	decades   map[int]int
	genres    map[string]int
	countries map[string]int
}

func newDiversityTracker() *diversityTracker {
	return &diversityTracker{
		decades:   make(map[int]int),
		genres:    make(map[string]int),
		countries: make(map[string]int),
	}
}

func (d *diversityTracker) add(c *candidate, regions RegionLookup) {
	if decade := c.movie.Decade(); decade != 0 {
		d.decades[decade]++
	}
	for _, g := range c.movie.Genres {
		d.genres[g]++
	}
	if regions != nil && c.movie.TMDBID != 0 {
		if countries, ok := regions.Countries(c.movie.TMDBID); ok {
			for _, country := range countries {
				d.countries[country]++
			}
		}
	}
}

// diversitySelect picks n candidates from a score-sorted pool in three
// phases: the top share purely by score, an international quota, then a
// fill pass that strictly prefers under-seen decades (and among those,
// under-seen genres) within a sliding window of next-best candidates.
func diversitySelect(cands []*candidate, n int, regions RegionLookup) []*candidate {
	if len(cands) == 0 || n <= 0 {
		return nil
	}
	sortByRank(cands)

	tracker := newDiversityTracker()
	selected := make([]*candidate, 0, n)
	pool := append([]*candidate(nil), cands...)

	// Phase 1: top slots purely by score.
	topCount := n * 20 / 100
	if topCount < 1 {
		topCount = 1
	}
	if topCount > len(pool) {
		topCount = len(pool)
	}
	for _, c := range pool[:topCount] {
		selected = append(selected, c)
		tracker.add(c, regions)
	}
	pool = pool[topCount:]

	// Phase 2: international quota, skipping over-represented decades and
	// countries.
	if regions != nil {
		quota := n * 20 / 100
		if quota < 1 {
			quota = 1
		}
		taken := 0
		for i := 0; i < len(pool) && taken < quota && len(selected) < n; {
			c := pool[i]
			if c.movie.TMDBID == 0 || !regions.IsUnderrepresented(c.movie.TMDBID) {
				i++
				continue
			}
			if overRepresented(c, tracker, regions) {
				i++
				continue
			}
			selected = append(selected, c)
			tracker.add(c, regions)
			pool = append(pool[:i], pool[i+1:]...)
			taken++
		}
	}

	// Phase 3: fill remaining slots. Within the window, candidates from
	// decades still under the repeat cap take strict priority; among those
	// the first one contributing an under-seen genre wins. Only when no
	// decade-diverse candidate exists does the best-ranked one go through.
	for len(pool) > 0 && len(selected) < n {
		window := len(pool)
		if window > diversityWindow {
			window = diversityWindow
		}
		pick := -1
		firstDecadeDiverse := -1
		for i := 0; i < window; i++ {
			decade := pool[i].movie.Decade()
			if decade == 0 || tracker.decades[decade] >= repeatCap {
				continue
			}
			if firstDecadeDiverse < 0 {
				firstDecadeDiverse = i
			}
			for _, g := range pool[i].movie.Genres {
				if tracker.genres[g] < repeatCap {
					pick = i
					break
				}
			}
			if pick >= 0 {
				break
			}
		}
		if pick < 0 {
			pick = firstDecadeDiverse
		}
		if pick < 0 {
			pick = 0
		}
		c := pool[pick]
		selected = append(selected, c)
		tracker.add(c, regions)
		pool = append(pool[:pick], pool[pick+1:]...)
	}
	return selected
}

// overRepresented reports whether selecting c would exceed the repeat cap
// for its decade or any of its production countries.
func overRepresented(c *candidate, tracker *diversityTracker, regions RegionLookup) bool {
	if decade := c.movie.Decade(); decade != 0 && tracker.decades[decade] >= repeatCap {
		return true
	}
	if regions != nil && c.movie.TMDBID != 0 {
		if countries, ok := regions.Countries(c.movie.TMDBID); ok {
			for _, country := range countries {
				if tracker.countries[country] >= repeatCap {
					return true
				}
			}
		}
	}
	return false
}

// finalDiverseSelect is the last pass over randomized candidates: repeats of
// an already-used decade or lead genre are penalized and only candidates
// that stay reasonably diverse are taken, unless the remaining slots force
// the issue.
func finalDiverseSelect(cands []*candidate, n int) []*candidate {
	selected := make([]*candidate, 0, n)
	usedDecades := make(map[int]struct{})
	usedLeadGenres := make(map[string]struct{})

	for i, c := range cands {
		if len(selected) >= n {
			break
		}
		penalty := 1.0
		decade := c.movie.Decade()
		if decade != 0 {
			if _, ok := usedDecades[decade]; ok {
				penalty *= 0.8
			}
		}
		var lead string
		if len(c.movie.Genres) > 0 {
			lead = c.movie.Genres[0]
			if _, ok := usedLeadGenres[lead]; ok {
				penalty *= 0.9
			}
		}
		c.rank *= penalty

		remaining := n - len(selected)
		if penalty > 0.7 || remaining >= len(cands)-i {
			selected = append(selected, c)
			if decade != 0 {
				usedDecades[decade] = struct{}{}
			}
			if lead != "" {
				usedLeadGenres[lead] = struct{}{}
			}
		}
	}
	return selected
}

// sortByRank orders candidates by rank descending, movie id ascending for
// reproducibility.
func sortByRank(cands []*candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].rank != cands[j].rank {
			return cands[i].rank > cands[j].rank
		}
		return cands[i].movie.ID < cands[j].movie.ID
	})
}
