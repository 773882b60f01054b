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

// Package releases shapes release data for the dashboard's release-summary
// panel. A release may span several projects; per-project stats are
// accumulated into a single summary state that can be combined and then
// formatted for display.
package releases

import (
	"fmt"
	"time"
)

// Release identifies a deployed version of the instrumented application.
type Release struct {
	Version     string
	DateCreated time.Time
}

// ProjectStats holds the per-project counters shown in the summary panel.
type ProjectStats struct {
	Project        string
	NewIssues      int64
	ResolvedIssues int64
	Events         int64
	Authors        int64
	Commits        int64
	// Sessions on this release vs. total sessions, for adoption.
	Sessions      int64
	TotalSessions int64
}

// SummaryState stores intermediate totals for a release across projects.
// States can be combined, allowing per-project stats to be accumulated in
// any order before formatting.
type SummaryState struct {
	Projects       int64
	NewIssues      int64
	ResolvedIssues int64
	Events         int64
	Authors        int64
	Commits        int64
	Sessions       int64
	TotalSessions  int64
}

// NewSummaryState creates an empty summary state.
func NewSummaryState() *SummaryState {
	return &SummaryState{}
}

// Add accumulates one project's stats into the state.
func (s *SummaryState) Add(stats ProjectStats) {
	s.Projects++
	s.NewIssues += stats.NewIssues
	s.ResolvedIssues += stats.ResolvedIssues
	s.Events += stats.Events
	s.Authors += stats.Authors
	s.Commits += stats.Commits
	s.Sessions += stats.Sessions
	s.TotalSessions += stats.TotalSessions
}

// Combine merges another state into this one.
func (s *SummaryState) Combine(other *SummaryState) {
	if other == nil {
		return
	}
	s.Projects += other.Projects
	s.NewIssues += other.NewIssues
	s.ResolvedIssues += other.ResolvedIssues
	s.Events += other.Events
	s.Authors += other.Authors
	s.Commits += other.Commits
	s.Sessions += other.Sessions
	s.TotalSessions += other.TotalSessions
}

// Adoption returns the fraction of sessions on this release (0.0 to 1.0).
func (s *SummaryState) Adoption() float64 {
	if s.TotalSessions == 0 {
		return 0
	}
	return float64(s.Sessions) / float64(s.TotalSessions)
}

// Summary is the formatted release summary as shown in the panel.
type Summary struct {
	Version        string
	Created        string
	Age            string
	Projects       string
	NewIssues      string
	ResolvedIssues string
	Events         string
	Authors        string
	Commits        string
	Adoption       string
}

// Summarize combines per-project stats for a release and formats the
// result for display. now supplies the reference time for the age field.
func Summarize(release Release, stats []ProjectStats, now time.Time) Summary {
	state := NewSummaryState()
	for _, st := range stats {
		state.Add(st)
	}
	return Summary{
		Version:        release.Version,
		Created:        formatDatetime(release.DateCreated),
		Age:            formatAge(release.DateCreated, now),
		Projects:       fmt.Sprintf("%d", state.Projects),
		NewIssues:      formatCount(state.NewIssues),
		ResolvedIssues: formatCount(state.ResolvedIssues),
		Events:         formatCount(state.Events),
		Authors:        formatCount(state.Authors),
		Commits:        formatCount(state.Commits),
		Adoption:       fmt.Sprintf("%.1f%%", state.Adoption()*100),
	}
}

// formatCount formats a counter for display, abbreviating large values.
func formatCount(v int64) string {
	switch {
	case v >= 1_000_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(v)/1_000_000)) + "m"
	case v >= 1_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(v)/1_000)) + "k"
	default:
		return fmt.Sprintf("%d", v)
	}
}

func trimTrailingZero(s string) string {
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}

// formatDatetime formats a time for display.
func formatDatetime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

// formatAge formats the elapsed time since creation using the largest
// sensible unit.
func formatAge(created, now time.Time) string {
	if created.IsZero() || !created.Before(now) {
		return "-"
	}
	d := now.Sub(created)
	hours := d.Hours()
	switch {
	case hours >= 24*365:
		return fmt.Sprintf("%.1fy", hours/(24*365))
	case hours >= 24*30:
		return fmt.Sprintf("%.1fmo", hours/(24*30))
	case hours >= 24:
		return fmt.Sprintf("%.1fd", hours/24)
	case hours >= 1:
		return fmt.Sprintf("%.1fh", hours)
	case d.Minutes() >= 1:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}
