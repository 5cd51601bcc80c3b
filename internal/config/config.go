// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

// Package config loads and validates the MoodBinge configuration from
// defaults, an optional YAML file and environment variables, in that
// order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Data    DataConfig    `koanf:"data"`
	TMDB    TMDBConfig    `koanf:"tmdb"`
	Engine  EngineConfig  `koanf:"engine"`
	Session SessionConfig `koanf:"session"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DataConfig locates the MovieLens-format catalog files.
type DataConfig struct {
	// Dir holds movies.csv plus optional ratings.csv, tags.csv, links.csv.
	Dir string `koanf:"dir" validate:"required"`
}

// TMDBConfig configures metadata enrichment.
type TMDBConfig struct {
	// Enabled toggles enrichment. Disabled, responses carry placeholders.
	Enabled bool   `koanf:"enabled"`
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	// Sync forces sequential fetching, mainly for tests and debugging.
	Sync bool `koanf:"sync"`
}

// EngineConfig tunes the recommendation pipeline.
type EngineConfig struct {
	// RandomSeed fixes exploration and session randomization. Zero seeds
	// from the clock.
	RandomSeed            int64   `koanf:"random_seed"`
	RandomizationStrength float64 `koanf:"randomization_strength" validate:"min=0,max=1"`
	Exploration           bool    `koanf:"exploration"`
	// MinUserRatings is the floor below which a user is excluded from
	// collaborative training.
	MinUserRatings int `koanf:"min_user_ratings" validate:"min=0"`
}

// SessionConfig tunes session history tracking.
type SessionConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// LoggingConfig mirrors the logging package's configuration.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for structural errors. TMDB
// credentials are checked here too so a misconfigured deployment fails at
// startup rather than at first request.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if c.TMDB.Enabled && c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required when tmdb.enabled is true")
	}
	return nil
}
