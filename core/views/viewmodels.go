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

// Package views builds view models for template consumption. View models
// contain only display-ready data: pre-formatted strings, resolved URLs
// and flags, never domain objects.
package views

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/safehtml"
	"github.com/keradus/sentry/core/aggregates"
	"github.com/keradus/sentry/core/query"
	"github.com/keradus/sentry/core/releases"
	"github.com/keradus/sentry/core/rules"
)

// GroupOption is one aggregate-group checkbox in the rule form.
type GroupOption struct {
	Tag       string       // Group tag, used as the form value
	Label     string       // Checkbox label
	Title     string       // Tooltip text
	Selected  bool         // Whether the checkbox is ticked
	ToggleURL safehtml.URL // URL that toggles the checkbox without submitting
}

// TagOption is one tag row in the rule form, with an optional
// high-cardinality warning.
type TagOption struct {
	Name    string
	Warning string // Empty if the tag is safe to group by
}

// ConditionView is one filter condition row in the rule form.
type ConditionView struct {
	ID    int64
	Query string
	IsNew bool   // True for conditions not yet persisted
	Error string // Validation error, if any
}

// RuleFormViewModel contains the rule form data formatted for the template.
type RuleFormViewModel struct {
	Title         string
	RuleID        string
	SpanAttribute string
	Unit          string
	Groups        []GroupOption
	Tags          []TagOption
	Conditions    []ConditionView
	FieldErrors   map[string]string
	Aggregations  string // Comma-separated raw aggregations, shown as a preview
	SubmitURL     safehtml.URL
	CancelURL     safehtml.URL
}

// NewRuleFormViewModel builds the form view model for a rule. validation
// may be nil on first render; tagWarnings maps tag name to warning text.
func NewRuleFormViewModel(rule *rules.ExtractionRule, q *query.EditorQuery, validation *rules.ValidationResult, tagWarnings map[string]string) RuleFormViewModel {
	title := "Create Metric"
	if rule.ID != "" {
		title = "Edit Metric"
	}

	selected := make(map[aggregates.AggregateGroup]bool)
	for _, group := range rule.Groups() {
		selected[group] = true
	}

	groupOptions := make([]GroupOption, 0, len(aggregates.Groups))
	for _, group := range aggregates.Groups {
		groupOptions = append(groupOptions, GroupOption{
			Tag:       string(group),
			Label:     aggregates.GroupLabel(group),
			Title:     aggregates.GroupTitle(group),
			Selected:  selected[group],
			ToggleURL: q.WithGroupToggled(group),
		})
	}

	tags := make([]TagOption, 0, len(rule.Tags))
	for _, tag := range rule.Tags {
		tags = append(tags, TagOption{Name: tag, Warning: tagWarnings[tag]})
	}

	fieldErrors := map[string]string{}
	if validation != nil {
		fieldErrors = validation.FieldErrors
	}

	conditions := make([]ConditionView, 0, len(rule.Conditions))
	for _, cond := range rule.Conditions {
		conditions = append(conditions, ConditionView{
			ID:    cond.ID,
			Query: cond.Query,
			IsNew: cond.IsNew(),
			Error: fieldErrors["condition:"+strconv.FormatInt(cond.ID, 10)],
		})
	}

	aggParts := make([]string, 0, len(rule.Aggregations))
	for _, agg := range rule.Aggregations {
		aggParts = append(aggParts, string(agg))
	}

	return RuleFormViewModel{
		Title:         title,
		RuleID:        rule.ID,
		SpanAttribute: rule.SpanAttribute,
		Unit:          rule.Unit,
		Groups:        groupOptions,
		Tags:          tags,
		Conditions:    conditions,
		FieldErrors:   fieldErrors,
		Aggregations:  strings.Join(aggParts, ", "),
		SubmitURL:     safehtml.URLSanitized("/rules/save"),
		CancelURL:     q.WithModal(false),
	}
}

// RuleRow is one row in the rule list.
type RuleRow struct {
	ID            string
	SpanAttribute string
	Unit          string
	Aggregations  string
	TagCount      int
	EditURL       safehtml.URL
}

// RuleListViewModel contains the rule list page data.
type RuleListViewModel struct {
	Title     string
	Rows      []RuleRow
	CreateURL safehtml.URL
}

// NewRuleListViewModel builds the list view model from stored rules.
func NewRuleListViewModel(ruleList []*rules.ExtractionRule) RuleListViewModel {
	rows := make([]RuleRow, 0, len(ruleList))
	for _, rule := range ruleList {
		parts := make([]string, 0, len(rule.Aggregations))
		for _, agg := range rule.Aggregations {
			parts = append(parts, string(agg))
		}
		editQuery := &query.EditorQuery{Path: "/rules/edit", RuleID: rule.ID, Modal: true}
		rows = append(rows, RuleRow{
			ID:            rule.ID,
			SpanAttribute: rule.SpanAttribute,
			Unit:          rule.Unit,
			Aggregations:  strings.Join(parts, ", "),
			TagCount:      len(rule.Tags),
			EditURL:       editQuery.ToSafeURL(),
		})
	}
	return RuleListViewModel{
		Title:     "Metrics Extraction Rules",
		Rows:      rows,
		CreateURL: (&query.EditorQuery{Path: "/rules/edit", Modal: true}).ToSafeURL(),
	}
}

// ReleaseSummaryViewModel contains the release summary panel data.
type ReleaseSummaryViewModel struct {
	Summary    releases.Summary
	DetailsURL safehtml.URL
}

// NewReleaseSummaryViewModel builds the panel view model for a release.
func NewReleaseSummaryViewModel(release releases.Release, stats []releases.ProjectStats, now time.Time) ReleaseSummaryViewModel {
	return ReleaseSummaryViewModel{
		Summary:    releases.Summarize(release, stats, now),
		DetailsURL: safehtml.URLSanitized("/releases/" + release.Version),
	}
}

// ModalViewModel wraps any page content shown inside the modal dialog.
type ModalViewModel struct {
	Title      string
	DismissURL safehtml.URL
	// Body is the already-rendered inner content.
	Body safehtml.HTML
}

// NewModalViewModel builds the modal wrapper around rendered body content.
func NewModalViewModel(title string, dismissURL safehtml.URL, body safehtml.HTML) ModalViewModel {
	return ModalViewModel{Title: title, DismissURL: dismissURL, Body: body}
}
