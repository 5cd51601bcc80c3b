// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/moods", "200"))
	RecordAPIRequest("GET", "/moods", 200, 5*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/moods", "200"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want +1", before, after)
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("phantom_fear", "enhanced"))
	RecordRecommendation("phantom_fear", "enhanced", 10*time.Millisecond)
	after := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("phantom_fear", "enhanced"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want +1", before, after)
	}
}

func TestRecordTMDBFetch(t *testing.T) {
	before := testutil.ToFloat64(TMDBFetches.WithLabelValues("success"))
	RecordTMDBFetch("success", time.Millisecond)
	after := testutil.ToFloat64(TMDBFetches.WithLabelValues("success"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want +1", before, after)
	}
}
