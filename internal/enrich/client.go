// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/moodbinge/moodbinge/internal/metrics"
)

// Sentinel errors surfaced by the client.
var (
	// ErrNotFound means TMDB has no movie for the id (404/400). This is a
	// cacheable, permanent-enough answer, not an upstream failure.
	ErrNotFound = errors.New("movie not found upstream")
	// ErrUpstream means TMDB could not be reached or kept failing after
	// retries.
	ErrUpstream = errors.New("metadata upstream unavailable")
)

const (
	defaultRequestTimeout = 8 * time.Second
	defaultMaxRetries     = 3
	defaultRetryBackoff   = 500 * time.Millisecond
	// maxRetryAfter caps how long a 429 Retry-After header can stall us.
	maxRetryAfter = 5 * time.Second
)

// ClientConfig configures the TMDB API client.
type ClientConfig struct {
	BaseURL        string        `json:"base_url"`
	APIKey         string        `json:"api_key"`
	RequestTimeout time.Duration `json:"request_timeout"`
	MaxRetries     int           `json:"max_retries"`
	RetryBackoff   time.Duration `json:"retry_backoff"`
	// RateLimit is the sustained outbound request rate per second.
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`
}

// DefaultClientConfig returns production defaults. The API key must still be
// supplied.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:        "https://api.themoviedb.org/3",
		RequestTimeout: defaultRequestTimeout,
		MaxRetries:     defaultMaxRetries,
		RetryBackoff:   defaultRetryBackoff,
		RateLimit:      20,
		RateBurst:      5,
	}
}

// fetchResult carries a response through the circuit breaker. A 404 travels
// as notFound=true rather than as an error so it never trips the breaker.
type fetchResult struct {
	body     []byte
	notFound bool
}

// Client fetches movie metadata from TMDB with rate limiting, retries with
// exponential backoff, Retry-After handling, and a circuit breaker around
// the transport. Safe for concurrent use.
type Client struct {
	cfg     ClientConfig
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[fetchResult]
	logger  zerolog.Logger
}

// NewClient builds a client from cfg, filling zero values with defaults.
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 20
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 5
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:  logger.With().Str("component", "tmdb").Logger(),
	}
	c.breaker = gobreaker.NewCircuitBreaker[fetchResult](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
		},
	})
	return c
}

// MovieDetails fetches /movie/{id} and maps it to Metadata.
func (c *Client) MovieDetails(ctx context.Context, tmdbID int64) (Metadata, error) {
	body, err := c.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), nil)
	if err != nil {
		return Metadata{}, err
	}
	var raw tmdbMovie
	if err := json.Unmarshal(body, &raw); err != nil {
		return Metadata{}, fmt.Errorf("decode movie %d: %w", tmdbID, err)
	}
	return raw.toMetadata(), nil
}

// Recommendations fetches TMDB's own recommendations for a movie.
func (c *Client) Recommendations(ctx context.Context, tmdbID int64, n int) ([]Metadata, error) {
	body, err := c.get(ctx, fmt.Sprintf("/movie/%d/recommendations", tmdbID), url.Values{"page": {"1"}})
	if err != nil {
		return nil, err
	}
	var raw struct {
		Results []tmdbMovie `json:"results"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode recommendations for %d: %w", tmdbID, err)
	}
	out := make([]Metadata, 0, n)
	for _, m := range raw.Results {
		out = append(out, m.toMetadata())
		if len(out) >= n {
			break
		}
	}
	return out, nil
}

// get performs a GET with retries. Attempts beyond the first wait an
// exponentially growing backoff; a 429 waits the server-requested interval
// instead, capped at maxRetryAfter.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", "en-US")
	reqURL := c.cfg.BaseURL + path + "?" + params.Encode()

	var delay time.Duration
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		delay = c.cfg.RetryBackoff << attempt

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		start := time.Now()
		res, err := c.breaker.Execute(func() (fetchResult, error) {
			return c.doRequest(ctx, reqURL)
		})
		elapsed := time.Since(start)

		switch {
		case err == nil && res.notFound:
			metrics.RecordTMDBFetch("not_found", elapsed)
			return nil, ErrNotFound
		case err == nil:
			metrics.RecordTMDBFetch("success", elapsed)
			return res.body, nil
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordTMDBFetch("breaker_open", elapsed)
			return nil, fmt.Errorf("%w: circuit open", ErrUpstream)
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			metrics.RecordTMDBFetch("error", elapsed)
			var ra retryAfterError
			if errors.As(err, &ra) {
				delay = ra.wait
			}
			c.logger.Debug().
				Err(err).
				Int("attempt", attempt+1).
				Str("path", path).
				Msg("TMDB request failed")
		}
	}
	return nil, fmt.Errorf("%w: retries exhausted for %s", ErrUpstream, path)
}

// retryAfterError signals a 429 with the server-requested wait.
type retryAfterError struct {
	wait time.Duration
}

func (e retryAfterError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.wait)
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (fetchResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fetchResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "MoodBinge/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fetchResult{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return fetchResult{}, err
		}
		return fetchResult{body: body}, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return fetchResult{notFound: true}, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return fetchResult{}, retryAfterError{wait: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		return fetchResult{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// parseRetryAfter converts a Retry-After header to a wait, capped so a
// misbehaving upstream cannot stall the pipeline.
func parseRetryAfter(header string) time.Duration {
	wait := 2 * time.Second
	if header != "" {
		if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
	}
	if wait > maxRetryAfter {
		wait = maxRetryAfter
	}
	return wait
}

type tmdbMovie struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	PosterPath          *string `json:"poster_path"`
	BackdropPath        *string `json:"backdrop_path"`
	Overview            string  `json:"overview"`
	ReleaseDate         string  `json:"release_date"`
	ProductionCountries []struct {
		Name string `json:"name"`
	} `json:"production_countries"`
	SpokenLanguages []struct {
		EnglishName string `json:"english_name"`
		Name        string `json:"name"`
	} `json:"spoken_languages"`
}

func (m tmdbMovie) toMetadata() Metadata {
	meta := Metadata{
		TMDBID:       m.ID,
		Title:        m.Title,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		Overview:     m.Overview,
		ReleaseDate:  m.ReleaseDate,
	}
	if meta.Overview == "" {
		meta.Overview = PlaceholderOverview
	}
	for _, c := range m.ProductionCountries {
		meta.Countries = append(meta.Countries, c.Name)
	}
	for _, l := range m.SpokenLanguages {
		name := l.EnglishName
		if name == "" {
			name = l.Name
		}
		meta.Languages = append(meta.Languages, name)
	}
	return meta
}
