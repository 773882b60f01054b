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

// Package rules models metrics-extraction rules: which span attribute to
// extract, which aggregations the backend should compute over it, which
// tags to group by, and which spans qualify. Rules are edited in the
// dashboard's rule form and submitted to the backend as a whole.
package rules

import (
	"strconv"
	"sync/atomic"

	"github.com/keradus/sentry/core/aggregates"
)

// Condition restricts a rule to spans matching a search query.
// Conditions carry an ID so the form can address them individually;
// conditions that have not been persisted yet use temporary negative IDs.
type Condition struct {
	ID    int64
	Query string
}

// IsNew reports whether the condition only exists in the form and has not
// been persisted.
func (c Condition) IsNew() bool {
	return c.ID < 0
}

// ExtractionRule describes the extraction of metrics from a span attribute.
type ExtractionRule struct {
	ID            string // empty until first saved
	SpanAttribute string
	Unit          string
	Tags          []string
	Aggregations  []aggregates.RawAggregation
	Conditions    []Condition
}

// Groups returns the aggregate groups covered by the rule's raw
// aggregations, for populating the form's multi-select.
func (r *ExtractionRule) Groups() []aggregates.AggregateGroup {
	return aggregates.Collapse(r.Aggregations)
}

// SetGroups replaces the rule's aggregations with the expansion of the
// given groups.
func (r *ExtractionRule) SetGroups(groups []aggregates.AggregateGroup) {
	r.Aggregations = aggregates.ExpandAll(groups)
}

// ConditionIDGenerator hands out temporary IDs for conditions created in
// the form before submission. IDs are negative and monotonically
// decreasing so they can never collide with persisted condition IDs,
// which are positive.
type ConditionIDGenerator struct {
	last atomic.Int64
}

// Next returns the next temporary condition ID.
func (g *ConditionIDGenerator) Next() int64 {
	return g.last.Add(-1)
}

// ValidationResult holds per-field validation errors for a rule, keyed by
// field name. Condition errors use the key "condition:<id>".
type ValidationResult struct {
	FieldErrors map[string]string
}

// NewValidationResult creates an empty ValidationResult.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{FieldErrors: make(map[string]string)}
}

// HasErrors reports whether any field failed validation.
func (v *ValidationResult) HasErrors() bool {
	return len(v.FieldErrors) > 0
}

// AddError records an error for a field. The first error per field wins.
func (v *ValidationResult) AddError(field, message string) {
	if _, exists := v.FieldErrors[field]; !exists {
		v.FieldErrors[field] = message
	}
}

// Validate applies the required-field checks the rule form performs before
// submission. It never mutates the rule.
func Validate(r *ExtractionRule) *ValidationResult {
	result := NewValidationResult()
	if r.SpanAttribute == "" {
		result.AddError("spanAttribute", "This field is required.")
	}
	if len(r.Aggregations) == 0 {
		result.AddError("aggregates", "At least one aggregate is required.")
	}
	for _, cond := range r.Conditions {
		if cond.Query == "" {
			result.AddError(conditionField(cond.ID), "A condition is required.")
		}
	}
	return result
}

func conditionField(id int64) string {
	return "condition:" + strconv.FormatInt(id, 10)
}

// Clone creates a deep copy of the rule, so form handling can mutate a
// working copy without touching the stored one.
func (r *ExtractionRule) Clone() *ExtractionRule {
	clone := &ExtractionRule{
		ID:            r.ID,
		SpanAttribute: r.SpanAttribute,
		Unit:          r.Unit,
		Tags:          make([]string, len(r.Tags)),
		Aggregations:  make([]aggregates.RawAggregation, len(r.Aggregations)),
		Conditions:    make([]Condition, len(r.Conditions)),
	}
	copy(clone.Tags, r.Tags)
	copy(clone.Aggregations, r.Aggregations)
	copy(clone.Conditions, r.Conditions)
	return clone
}
