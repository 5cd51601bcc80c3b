// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

// Package main is the entry point for the MoodBinge server.
//
// MoodBinge serves mood-based movie recommendations over a MovieLens-format
// catalog, optionally enriched with TMDB metadata.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered sources (env > config.yaml > defaults)
//  2. Logging: zerolog, JSON by default
//  3. Catalog: CSV load, fatal if movies.csv is missing
//  4. Collaborative model: trained from ratings at startup
//  5. Enrichment: TMDB client, metadata cache and region index (optional)
//  6. HTTP server: chi router with rate limiting and Prometheus metrics
//
// # Configuration
//
// Environment variables use the MOODBINGE_ prefix:
//
//	export MOODBINGE_DATA_DIR=/data/movielens
//	export MOODBINGE_SERVER_PORT=8000
//	export MOODBINGE_TMDB_ENABLED=true
//	export MOODBINGE_TMDB_API_KEY=your-tmdb-key
//	./moodbinge
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the listener stops taking
// connections, in-flight requests get the configured shutdown timeout, then
// the session tracker and metadata cache are closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moodbinge/moodbinge/internal/api"
	"github.com/moodbinge/moodbinge/internal/catalog"
	"github.com/moodbinge/moodbinge/internal/cf"
	"github.com/moodbinge/moodbinge/internal/config"
	"github.com/moodbinge/moodbinge/internal/engine"
	"github.com/moodbinge/moodbinge/internal/enrich"
	"github.com/moodbinge/moodbinge/internal/logging"
	"github.com/moodbinge/moodbinge/internal/mood"
	"github.com/moodbinge/moodbinge/internal/session"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logger.Info().Str("data_dir", cfg.Data.Dir).Msg("MoodBinge starting")

	store, err := catalog.Load(cfg.Data.Dir, logger)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info().Int("movies", store.Len()).Msg("Catalog loaded")

	model := cf.New(cfg.Engine.MinUserRatings, logger)
	trainCtx, cancelTrain := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancelTrain()
	if err := model.Train(trainCtx, store.UserRatings()); err != nil {
		// Recommendations degrade to mood-only scoring without the model.
		logger.Warn().Err(err).Msg("Collaborative model training failed")
	}

	tracker := session.NewTracker(cfg.Session.TTL, logger)
	defer tracker.Close()
	cache := enrich.NewCache()
	defer cache.Close()
	regions := enrich.NewRegionIndex()

	var (
		meta enrich.Source
		recs engine.RecommendationsSource
	)
	if cfg.TMDB.Enabled {
		clientCfg := enrich.DefaultClientConfig()
		clientCfg.APIKey = cfg.TMDB.APIKey
		if cfg.TMDB.BaseURL != "" {
			clientCfg.BaseURL = cfg.TMDB.BaseURL
		}
		client := enrich.NewClient(clientCfg, logger)
		fetcherCfg := enrich.DefaultFetcherConfig()
		fetcherCfg.Sync = cfg.TMDB.Sync
		meta = enrich.NewFetcher(client, cache, regions, fetcherCfg, logger)
		recs = client
		logger.Info().Msg("TMDB enrichment enabled")
	} else {
		logger.Info().Msg("TMDB enrichment disabled, serving placeholders")
	}

	eng := engine.New(engine.Config{
		RandomSeed:            cfg.Engine.RandomSeed,
		RandomizationStrength: cfg.Engine.RandomizationStrength,
		Exploration:           cfg.Engine.Exploration,
	}, engine.Deps{
		Catalog:  store,
		Moods:    mood.NewRegistry(),
		Model:    model,
		Sessions: tracker,
		Meta:     meta,
		Cache:    cache,
		Regions:  regions,
		Recs:     recs,
		Logger:   logger,
	})

	router := api.NewRouter(api.NewHandlers(eng, logger), api.RouterConfig{
		RateLimitReqs:     cfg.Server.RateLimitReqs,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
		RateLimitDisabled: cfg.Server.RateLimitDisabled,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("Server stopped")
	return nil
}
