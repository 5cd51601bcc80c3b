// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

HTTP metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint

Recommendation metrics:
  - recommendations_total: Recommendation requests served (counter)
    Labels: mood, path (enhanced, classic)
  - recommendations_degraded_total: Requests served by the classic path
    after an enhanced-path failure (counter)
  - recommendation_duration_seconds: End-to-end ranking latency (histogram)
    Labels: mood

TMDB enrichment metrics:
  - tmdb_fetches_total: Upstream fetch outcomes (counter)
    Labels: outcome (success, not_found, error, breaker_open)
  - tmdb_fetch_duration_seconds: Upstream fetch latency (histogram)
  - metadata_cache_hits_total / metadata_cache_misses_total: Cache
    efficiency (counters)
*/
package metrics
