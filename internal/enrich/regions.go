// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package enrich

import "sync"

// underrepresentedRegions lists production countries whose cinema the
// diversity selector actively promotes.
var underrepresentedRegions = map[string][]string{
	"South America":  {"Argentina", "Brazil", "Chile", "Colombia", "Peru", "Venezuela"},
	"Asia":           {"China", "Japan", "South Korea", "India", "Thailand", "Vietnam", "Indonesia"},
	"Africa":         {"South Africa", "Nigeria", "Kenya", "Morocco", "Egypt"},
	"Middle East":    {"Iran", "Turkey", "Israel", "Lebanon", "Saudi Arabia"},
	"Eastern Europe": {"Russia", "Poland", "Czech Republic", "Hungary", "Romania"},
}

var westernEurope = []string{"United Kingdom", "France", "Germany", "Italy", "Spain"}

// RegionIndex accumulates production-country data as metadata is fetched and
// answers diversity queries about it. Safe for concurrent use.
type RegionIndex struct {
	mu        sync.RWMutex
	countries map[int64][]string
}

// NewRegionIndex creates an empty index.
func NewRegionIndex() *RegionIndex {
	return &RegionIndex{countries: make(map[int64][]string)}
}

// Observe records the production countries from fetched metadata.
func (r *RegionIndex) Observe(meta Metadata) {
	if meta.TMDBID == 0 || len(meta.Countries) == 0 {
		return
	}
	r.mu.Lock()
	r.countries[meta.TMDBID] = meta.Countries
	r.mu.Unlock()
}

// Countries returns the known production countries for a movie.
func (r *RegionIndex) Countries(tmdbID int64) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.countries[tmdbID]
	return c, ok
}

// IsUnderrepresented reports whether any production country belongs to an
// underrepresented region, or the film is neither US nor Western European.
// Movies with no observed country data return false.
func (r *RegionIndex) IsUnderrepresented(tmdbID int64) bool {
	countries, ok := r.Countries(tmdbID)
	if !ok {
		return false
	}
	for _, regionCountries := range underrepresentedRegions {
		for _, rc := range regionCountries {
			for _, c := range countries {
				if c == rc {
					return true
				}
			}
		}
	}
	for _, c := range countries {
		if c == "United States of America" {
			return false
		}
		for _, we := range westernEurope {
			if c == we {
				return false
			}
		}
	}
	return true
}

// Len returns how many movies have observed country data.
func (r *RegionIndex) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.countries)
}
