// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

// Package catalog loads and indexes the MovieLens-style movie catalog.
//
// The catalog is read once at startup from four CSV files (movies, ratings,
// tags, links) and is immutable afterwards, so lookups need no locking.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Movie is a single catalog entry with its aggregated rating statistics.
type Movie struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Genres     []string `json:"genres"`
	Year       int      `json:"year,omitempty"`
	AvgRating  float64  `json:"avg_rating"`
	NumRatings int      `json:"num_ratings"`
	Tags       []string `json:"tags,omitempty"`
	TMDBID     int64    `json:"tmdb_id,omitempty"`
	IMDBID     string   `json:"imdb_id,omitempty"`
}

// HasGenre reports whether the movie carries the given genre label.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Decade returns the movie's release decade (e.g. 1990), or 0 when the
// release year is unknown.
func (m *Movie) Decade() int {
	if m.Year == 0 {
		return 0
	}
	return (m.Year / 10) * 10
}

// Store holds the loaded catalog and the rating matrix used by the
// collaborative filter. All fields are read-only after Load returns.
type Store struct {
	movies  map[int]*Movie
	ordered []*Movie

	// userRatings maps userID -> movieID -> rating (0.5..5.0).
	userRatings map[int]map[int]float64

	logger zerolog.Logger
}

var yearSuffix = regexp.MustCompile(`\((\d{4})\)\s*$`)

// Load reads the catalog CSVs from dir. movies.csv is required; ratings.csv,
// tags.csv and links.csv are optional but strongly recommended (without
// ratings the collaborative filter and quality scoring degrade to neutral).
func Load(dir string, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		movies:      make(map[int]*Movie),
		userRatings: make(map[int]map[int]float64),
		logger:      logger.With().Str("component", "catalog").Logger(),
	}

	if err := s.loadMovies(filepath.Join(dir, "movies.csv")); err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	if err := s.loadRatings(filepath.Join(dir, "ratings.csv")); err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	if err := s.loadTags(filepath.Join(dir, "tags.csv")); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	if err := s.loadLinks(filepath.Join(dir, "links.csv")); err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}

	s.logger.Info().
		Int("movies", len(s.movies)).
		Int("users", len(s.userRatings)).
		Msg("Catalog loaded")
	return s, nil
}

// NewFromMovies builds an in-memory store from pre-constructed records.
// Intended for tests and embedded fixtures.
func NewFromMovies(movies []Movie, userRatings map[int]map[int]float64) *Store {
	s := &Store{
		movies:      make(map[int]*Movie, len(movies)),
		userRatings: userRatings,
	}
	if s.userRatings == nil {
		s.userRatings = make(map[int]map[int]float64)
	}
	for i := range movies {
		m := movies[i]
		s.movies[m.ID] = &m
		s.ordered = append(s.ordered, s.movies[m.ID])
	}
	s.recomputeAggregates()
	return s
}

func (s *Store) loadMovies(path string) error {
	return readCSV(path, false, func(rec []string) error {
		if len(rec) < 3 {
			return nil
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil
		}
		m := &Movie{ID: id, Title: strings.TrimSpace(rec[1])}
		if match := yearSuffix.FindStringSubmatch(m.Title); match != nil {
			m.Year, _ = strconv.Atoi(match[1])
		}
		if rec[2] != "" && rec[2] != "(no genres listed)" {
			m.Genres = strings.Split(rec[2], "|")
		}
		s.movies[id] = m
		s.ordered = append(s.ordered, m)
		return nil
	})
}

func (s *Store) loadRatings(path string) error {
	err := readCSV(path, true, func(rec []string) error {
		if len(rec) < 3 {
			return nil
		}
		userID, err1 := strconv.Atoi(rec[0])
		movieID, err2 := strconv.Atoi(rec[1])
		rating, err3 := strconv.ParseFloat(rec[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil
		}
		if _, ok := s.movies[movieID]; !ok {
			return nil
		}
		if s.userRatings[userID] == nil {
			s.userRatings[userID] = make(map[int]float64)
		}
		s.userRatings[userID][movieID] = rating
		return nil
	})
	if err != nil {
		return err
	}
	s.recomputeAggregates()
	return nil
}

func (s *Store) loadTags(path string) error {
	seen := make(map[int]map[string]struct{})
	return readCSV(path, true, func(rec []string) error {
		if len(rec) < 3 {
			return nil
		}
		movieID, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil
		}
		m, ok := s.movies[movieID]
		if !ok {
			return nil
		}
		tag := strings.ToLower(strings.TrimSpace(rec[2]))
		if tag == "" {
			return nil
		}
		if seen[movieID] == nil {
			seen[movieID] = make(map[string]struct{})
		}
		if _, dup := seen[movieID][tag]; dup {
			return nil
		}
		seen[movieID][tag] = struct{}{}
		m.Tags = append(m.Tags, tag)
		return nil
	})
}

func (s *Store) loadLinks(path string) error {
	return readCSV(path, true, func(rec []string) error {
		if len(rec) < 3 {
			return nil
		}
		movieID, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil
		}
		m, ok := s.movies[movieID]
		if !ok {
			return nil
		}
		if rec[1] != "" {
			m.IMDBID = "tt" + rec[1]
		}
		if rec[2] != "" {
			m.TMDBID, _ = strconv.ParseInt(rec[2], 10, 64)
		}
		return nil
	})
}

func (s *Store) recomputeAggregates() {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, ratings := range s.userRatings {
		for movieID, r := range ratings {
			sums[movieID] += r
			counts[movieID]++
		}
	}
	for id, m := range s.movies {
		if c := counts[id]; c > 0 {
			m.AvgRating = sums[id] / float64(c)
			m.NumRatings = c
		}
	}
}

// readCSV streams records from path, skipping the header row. Optional files
// that do not exist are ignored.
func readCSV(path string, optional bool, fn func(rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if first {
			first = false
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// Movie returns the catalog entry for id.
func (s *Store) Movie(id int) (*Movie, bool) {
	m, ok := s.movies[id]
	return m, ok
}

// All returns every movie in load order. Callers must not mutate the slice.
func (s *Store) All() []*Movie {
	return s.ordered
}

// Len returns the number of movies in the catalog.
func (s *Store) Len() int {
	return len(s.movies)
}

// UserRatings returns the full user->movie->rating matrix.
// The collaborative filter consumes this once at training time.
func (s *Store) UserRatings() map[int]map[int]float64 {
	return s.userRatings
}
