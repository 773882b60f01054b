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

package query

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/keradus/sentry/core/aggregates"
)

func parseEditor(t *testing.T, rawURL string) *EditorQuery {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", rawURL, err)
	}
	return NewEditorQuery(u)
}

func roundTrip(t *testing.T, safeURL string) *EditorQuery {
	t.Helper()
	return parseEditor(t, safeURL)
}

func TestNewEditorQuery(t *testing.T) {
	q := parseEditor(t, "/rules/edit?rule=abc&groups=percentiles,count&expanded=conditions&modal=1")

	if q.RuleID != "abc" {
		t.Errorf("RuleID = %q, want %q", q.RuleID, "abc")
	}
	if !q.Modal {
		t.Error("Modal should be true")
	}
	// Groups come back in display order regardless of URL order.
	wantGroups := []aggregates.AggregateGroup{aggregates.GroupCount, aggregates.GroupPercentiles}
	if diff := cmp.Diff(wantGroups, q.Groups); diff != "" {
		t.Errorf("Groups mismatch (-want +got):\n%s", diff)
	}
	if !q.IsPanelExpanded("conditions") {
		t.Error("conditions panel should be expanded")
	}
}

func TestNewEditorQueryDropsUnknownGroups(t *testing.T) {
	q := parseEditor(t, "/rules/edit?groups=count,histogram,bogus")
	want := []aggregates.AggregateGroup{aggregates.GroupCount}
	if diff := cmp.Diff(want, q.Groups); diff != "" {
		t.Errorf("Groups mismatch (-want +got):\n%s", diff)
	}
}

func TestWithGroupToggled(t *testing.T) {
	t.Run("toggle on keeps display order", func(t *testing.T) {
		q := parseEditor(t, "/rules/edit?groups=percentiles")
		newState := roundTrip(t, q.WithGroupToggled(aggregates.GroupCount).String())

		want := []aggregates.AggregateGroup{aggregates.GroupCount, aggregates.GroupPercentiles}
		if diff := cmp.Diff(want, newState.Groups); diff != "" {
			t.Errorf("Groups mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("toggle off", func(t *testing.T) {
		q := parseEditor(t, "/rules/edit?groups=count,percentiles")
		newState := roundTrip(t, q.WithGroupToggled(aggregates.GroupPercentiles).String())

		want := []aggregates.AggregateGroup{aggregates.GroupCount}
		if diff := cmp.Diff(want, newState.Groups); diff != "" {
			t.Errorf("Groups mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("original state is untouched", func(t *testing.T) {
		q := parseEditor(t, "/rules/edit?groups=count")
		q.WithGroupToggled(aggregates.GroupMinMax)
		want := []aggregates.AggregateGroup{aggregates.GroupCount}
		if diff := cmp.Diff(want, q.Groups); diff != "" {
			t.Errorf("Groups mismatch after toggle (-want +got):\n%s", diff)
		}
	})
}

func TestWithPanelToggled(t *testing.T) {
	q := parseEditor(t, "/rules/edit?expanded=tags")

	expanded := roundTrip(t, q.WithPanelToggled("conditions").String())
	if !expanded.IsPanelExpanded("conditions") || !expanded.IsPanelExpanded("tags") {
		t.Errorf("expected both panels expanded, got %v", expanded.Expanded)
	}

	collapsed := roundTrip(t, expanded.WithPanelToggled("tags").String())
	if collapsed.IsPanelExpanded("tags") {
		t.Errorf("tags panel should be collapsed, got %v", collapsed.Expanded)
	}
}

func TestWithModal(t *testing.T) {
	q := parseEditor(t, "/rules/edit?rule=abc")
	shown := roundTrip(t, q.WithModal(true).String())
	if !shown.Modal {
		t.Error("Modal should be true after WithModal(true)")
	}
	hidden := roundTrip(t, shown.WithModal(false).String())
	if hidden.Modal {
		t.Error("Modal should be false after WithModal(false)")
	}
}

func TestToURLRoundTrip(t *testing.T) {
	q := parseEditor(t, "/rules/edit?rule=abc&groups=count,min_max&expanded=conditions,tags&modal=1")
	again := parseEditor(t, q.ToURL())
	if diff := cmp.Diff(q, again); diff != "" {
		t.Errorf("URL round trip mismatch (-want +got):\n%s", diff)
	}
}
