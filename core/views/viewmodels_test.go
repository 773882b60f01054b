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

package views

import (
	"testing"
	"time"

	"github.com/keradus/sentry/core/aggregates"
	"github.com/keradus/sentry/core/query"
	"github.com/keradus/sentry/core/releases"
	"github.com/keradus/sentry/core/rules"
)

func TestNewRuleFormViewModel(t *testing.T) {
	rule := &rules.ExtractionRule{
		ID:            "abc",
		SpanAttribute: "span.duration",
		Unit:          "millisecond",
		Aggregations:  []aggregates.RawAggregation{aggregates.RawCount, aggregates.RawP95},
		Tags:          []string{"http.method", "user.id"},
		Conditions: []rules.Condition{
			{ID: 1, Query: "op:http.server"},
			{ID: -1, Query: ""},
		},
	}
	q := &query.EditorQuery{Path: "/rules/edit", RuleID: "abc"}
	validation := rules.Validate(rule)
	warnings := map[string]string{"user.id": "too many values"}

	vm := NewRuleFormViewModel(rule, q, validation, warnings)

	if vm.Title != "Edit Metric" {
		t.Errorf("Title = %q, want %q", vm.Title, "Edit Metric")
	}

	// count and percentiles checkboxes are ticked; the others are not.
	selected := make(map[string]bool)
	for _, opt := range vm.Groups {
		if opt.Selected {
			selected[opt.Tag] = true
		}
	}
	if !selected["count"] || !selected["percentiles"] || selected["min_max"] || selected["count_unique"] {
		t.Errorf("unexpected selected groups: %v", selected)
	}

	if vm.Tags[0].Warning != "" {
		t.Errorf("http.method should carry no warning, got %q", vm.Tags[0].Warning)
	}
	if vm.Tags[1].Warning == "" {
		t.Error("user.id should carry a cardinality warning")
	}

	if !vm.Conditions[1].IsNew {
		t.Error("condition with temporary ID should be flagged new")
	}
	if vm.Conditions[1].Error == "" {
		t.Error("empty condition should carry a validation error")
	}

	if vm.Aggregations != "count, p95" {
		t.Errorf("Aggregations preview = %q", vm.Aggregations)
	}
}

func TestNewRuleFormViewModelCreate(t *testing.T) {
	rule := &rules.ExtractionRule{}
	q := &query.EditorQuery{Path: "/rules/edit"}
	vm := NewRuleFormViewModel(rule, q, nil, nil)
	if vm.Title != "Create Metric" {
		t.Errorf("Title = %q, want %q", vm.Title, "Create Metric")
	}
	if len(vm.Groups) != len(aggregates.Groups) {
		t.Errorf("expected %d group options, got %d", len(aggregates.Groups), len(vm.Groups))
	}
}

func TestNewRuleListViewModel(t *testing.T) {
	vm := NewRuleListViewModel([]*rules.ExtractionRule{
		{
			ID:            "r1",
			SpanAttribute: "span.duration",
			Aggregations:  []aggregates.RawAggregation{aggregates.RawCount},
			Tags:          []string{"http.method"},
		},
	})
	if len(vm.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(vm.Rows))
	}
	row := vm.Rows[0]
	if row.Aggregations != "count" {
		t.Errorf("Aggregations = %q", row.Aggregations)
	}
	if row.TagCount != 1 {
		t.Errorf("TagCount = %d", row.TagCount)
	}
	if row.EditURL.String() == "" {
		t.Error("EditURL should be set")
	}
}

func TestNewReleaseSummaryViewModel(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	vm := NewReleaseSummaryViewModel(
		releases.Release{Version: "backend@1.2.3", DateCreated: created},
		[]releases.ProjectStats{{Project: "backend", NewIssues: 2, Events: 100}},
		created.Add(2*time.Hour),
	)
	if vm.Summary.Version != "backend@1.2.3" {
		t.Errorf("Version = %q", vm.Summary.Version)
	}
	if vm.Summary.Age != "2.0h" {
		t.Errorf("Age = %q", vm.Summary.Age)
	}
	if vm.DetailsURL.String() == "" {
		t.Error("DetailsURL should be set")
	}
}
