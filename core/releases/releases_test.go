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

package releases

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSummaryStateCombine(t *testing.T) {
	a := NewSummaryState()
	a.Add(ProjectStats{Project: "frontend", NewIssues: 3, Events: 1200, Sessions: 500, TotalSessions: 1000})

	b := NewSummaryState()
	b.Add(ProjectStats{Project: "backend", NewIssues: 1, ResolvedIssues: 4, Events: 800, Sessions: 300, TotalSessions: 1000})

	a.Combine(b)

	if a.Projects != 2 {
		t.Errorf("Projects = %d, want 2", a.Projects)
	}
	if a.NewIssues != 4 {
		t.Errorf("NewIssues = %d, want 4", a.NewIssues)
	}
	if a.Events != 2000 {
		t.Errorf("Events = %d, want 2000", a.Events)
	}
	if got := a.Adoption(); got != 0.4 {
		t.Errorf("Adoption = %v, want 0.4", got)
	}

	// Combining nil is a no-op.
	a.Combine(nil)
	if a.Projects != 2 {
		t.Errorf("Combine(nil) changed state: Projects = %d", a.Projects)
	}
}

func TestSummarize(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	now := created.Add(36 * time.Hour)

	got := Summarize(
		Release{Version: "frontend@25.3.0", DateCreated: created},
		[]ProjectStats{
			{Project: "frontend", NewIssues: 12, ResolvedIssues: 3, Events: 152_000, Authors: 5, Commits: 41, Sessions: 820, TotalSessions: 1000},
			{Project: "mobile", NewIssues: 2, Events: 48_000, Authors: 2, Commits: 9, Sessions: 100, TotalSessions: 1000},
		},
		now,
	)

	want := Summary{
		Version:        "frontend@25.3.0",
		Created:        "2025-03-10 09:30",
		Age:            "1.5d",
		Projects:       "2",
		NewIssues:      "14",
		ResolvedIssues: "3",
		Events:         "200k",
		Authors:        "7",
		Commits:        "50",
		Adoption:       "46.0%",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1k"},
		{1500, "1.5k"},
		{2_000_000, "2m"},
		{2_340_000, "2.3m"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.in); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		created time.Time
		want    string
	}{
		{time.Time{}, "-"},
		{now.Add(time.Hour), "-"},
		{now.Add(-30 * time.Second), "30.0s"},
		{now.Add(-90 * time.Minute), "1.5h"},
		{now.Add(-48 * time.Hour), "2.0d"},
		{now.AddDate(-1, 0, 0), "1.0y"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.created, now); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.created, got, tt.want)
		}
	}
}
