/*
SPDX-License-Identifier: Apache-2.0

Copyright 2025 The Sentry Dashboard Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package demo provides sample data and server wiring for running the
// dashboard locally.
package demo

import (
	"time"

	"github.com/keradus/sentry/core/cardinality"
	"github.com/keradus/sentry/core/releases"
)

// RuleFixtures is a textproto rule set seeded into the demo store.
const RuleFixtures = `
rules {
  span_attribute: "span.duration"
  unit: "millisecond"
  aggregates: "count"
  aggregates: "p50"
  aggregates: "p75"
  aggregates: "p90"
  aggregates: "p95"
  aggregates: "p99"
  tags: "http.method"
  tags: "transaction"
  conditions { id: 1 query: "op:http.server" }
}
rules {
  span_attribute: "cache.item_size"
  unit: "byte"
  aggregates: "min"
  aggregates: "max"
  aggregates: "sum"
  aggregates: "avg"
  tags: "cache.hit"
}
rules {
  span_attribute: "db.rows_affected"
  aggregates: "count"
  aggregates: "count_unique"
  conditions { id: 2 query: "op:db.query" }
}
`

// ReleaseSource serves a fixed set of demo releases.
type ReleaseSource struct {
	data map[string]struct {
		release releases.Release
		stats   []releases.ProjectStats
	}
}

// NewReleaseSource creates the demo release source.
func NewReleaseSource() *ReleaseSource {
	src := &ReleaseSource{data: make(map[string]struct {
		release releases.Release
		stats   []releases.ProjectStats
	})}

	now := time.Now().UTC()
	src.add(
		releases.Release{Version: "frontend@25.6.1", DateCreated: now.Add(-26 * time.Hour)},
		[]releases.ProjectStats{
			{Project: "frontend", NewIssues: 8, ResolvedIssues: 2, Events: 182_000, Authors: 6, Commits: 37, Sessions: 4_100, TotalSessions: 9_800},
			{Project: "mobile", NewIssues: 1, Events: 24_000, Authors: 2, Commits: 5, Sessions: 600, TotalSessions: 9_800},
		},
	)
	src.add(
		releases.Release{Version: "backend@2.14.0", DateCreated: now.Add(-9 * 24 * time.Hour)},
		[]releases.ProjectStats{
			{Project: "backend", NewIssues: 3, ResolvedIssues: 11, Events: 951_000, Authors: 9, Commits: 122, Sessions: 8_700, TotalSessions: 9_100},
		},
	)
	return src
}

func (s *ReleaseSource) add(release releases.Release, stats []releases.ProjectStats) {
	s.data[release.Version] = struct {
		release releases.Release
		stats   []releases.ProjectStats
	}{release, stats}
}

// GetRelease returns a demo release and its stats by version.
func (s *ReleaseSource) GetRelease(version string) (releases.Release, []releases.ProjectStats, bool) {
	entry, ok := s.data[version]
	if !ok {
		return releases.Release{}, nil, false
	}
	return entry.release, entry.stats, true
}

// StatsSource serves fixed cardinality stats for well-known attributes.
type StatsSource struct {
	stats map[string]cardinality.Stats
}

// NewStatsSource creates the demo attribute stats source.
func NewStatsSource() *StatsSource {
	stats := map[string]cardinality.Stats{
		"http.method":      {Attribute: "http.method", Distinct: 7, Total: 1_000_000},
		"transaction":      {Attribute: "transaction", Distinct: 420, Total: 1_000_000},
		"cache.hit":        {Attribute: "cache.hit", Distinct: 2, Total: 400_000},
		"user.id":          {Attribute: "user.id", Distinct: 310_000, Total: 1_000_000},
		"span.description": {Attribute: "span.description", Distinct: 96_000, Total: 1_000_000},
	}
	return &StatsSource{stats: stats}
}

// GetStats returns recorded stats for the given attributes.
func (s *StatsSource) GetStats(attributes []string) []cardinality.Stats {
	var result []cardinality.Stats
	for _, attr := range attributes {
		if st, ok := s.stats[attr]; ok {
			result = append(result, st)
		}
	}
	return result
}
