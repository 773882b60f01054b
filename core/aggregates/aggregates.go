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

// Package aggregates defines the statistical aggregation functions the
// metrics backend computes over span attributes, and the compact aggregate
// groups the dashboard exposes as selectable labels. A group bundles one or
// more raw aggregations under a single checkbox; this package provides the
// bidirectional mapping between the two representations.
package aggregates

import "fmt"

// RawAggregation identifies a specific statistic the backend computes over
// a span attribute. The set of values is closed on the UI side; values
// arriving from outside the process must go through ParseRawAggregation.
type RawAggregation string

const (
	RawCount       RawAggregation = "count"
	RawCountUnique RawAggregation = "count_unique"
	RawMin         RawAggregation = "min"
	RawMax         RawAggregation = "max"
	RawSum         RawAggregation = "sum"
	RawAvg         RawAggregation = "avg"
	RawP50         RawAggregation = "p50"
	RawP75         RawAggregation = "p75"
	RawP90         RawAggregation = "p90"
	RawP95         RawAggregation = "p95"
	RawP99         RawAggregation = "p99"
)

// AggregateGroup is a user-facing bucket of related raw aggregations.
// The dashboard renders one multi-select option per group.
type AggregateGroup string

const (
	GroupCount       AggregateGroup = "count"
	GroupCountUnique AggregateGroup = "count_unique"
	GroupMinMax      AggregateGroup = "min_max"
	GroupPercentiles AggregateGroup = "percentiles"
)

// Groups lists all aggregate groups in display order. Collapse returns its
// result in this order regardless of input order.
var Groups = []AggregateGroup{GroupCount, GroupCountUnique, GroupMinMax, GroupPercentiles}

// groupMembers maps each group to the raw aggregations it stands for.
// The expansion of min_max deliberately includes sum and avg: the backend
// derives all four from the same accumulator, so the UI offers them as one
// unit.
var groupMembers = map[AggregateGroup][]RawAggregation{
	GroupCount:       {RawCount},
	GroupCountUnique: {RawCountUnique},
	GroupMinMax:      {RawMin, RawMax, RawSum, RawAvg},
	GroupPercentiles: {RawP50, RawP75, RawP90, RawP95, RawP99},
}

// Expand returns the raw aggregations a group stands for, in their
// canonical order. Expand is total over the four defined groups; calling
// it with anything else is a programming error and panics. Values decoded
// from external input must be mapped to a known group before reaching
// this function.
func Expand(group AggregateGroup) []RawAggregation {
	members, ok := groupMembers[group]
	if !ok {
		panic(fmt.Sprintf("aggregates: unknown aggregate group %q", group))
	}
	out := make([]RawAggregation, len(members))
	copy(out, members)
	return out
}

// Collapse maps a list of raw aggregations back to the set of groups
// present in it. A group is included when at least one of its members
// appears in the input; partial selections still light up the group.
// Input order and duplicates are irrelevant, and unknown values are
// skipped so that aggregations added to the backend after this build do
// not break existing rules. The result is ordered as in Groups.
func Collapse(aggregations []RawAggregation) []AggregateGroup {
	present := make(map[RawAggregation]bool, len(aggregations))
	for _, agg := range aggregations {
		present[agg] = true
	}

	var result []AggregateGroup
	for _, group := range Groups {
		for _, member := range groupMembers[group] {
			if present[member] {
				result = append(result, group)
				break
			}
		}
	}
	return result
}

// ParseRawAggregation decodes a raw aggregation identifier from external
// input (form values, API payloads, fixtures). It reports false for
// identifiers this build does not know about; callers are expected to drop
// those rather than fail.
func ParseRawAggregation(s string) (RawAggregation, bool) {
	switch RawAggregation(s) {
	case RawCount, RawCountUnique, RawMin, RawMax, RawSum, RawAvg,
		RawP50, RawP75, RawP90, RawP95, RawP99:
		return RawAggregation(s), true
	}
	return "", false
}

// ParseRawAggregations decodes a list of identifiers, silently dropping
// unknown ones.
func ParseRawAggregations(values []string) []RawAggregation {
	var result []RawAggregation
	for _, v := range values {
		if agg, ok := ParseRawAggregation(v); ok {
			result = append(result, agg)
		}
	}
	return result
}

// ParseGroup decodes an aggregate group tag from external input.
func ParseGroup(s string) (AggregateGroup, bool) {
	switch AggregateGroup(s) {
	case GroupCount, GroupCountUnique, GroupMinMax, GroupPercentiles:
		return AggregateGroup(s), true
	}
	return "", false
}

// ParseGroups decodes a list of group tags, dropping unknown ones and
// returning the survivors in canonical display order.
func ParseGroups(values []string) []AggregateGroup {
	present := make(map[AggregateGroup]bool, len(values))
	for _, v := range values {
		if group, ok := ParseGroup(v); ok {
			present[group] = true
		}
	}
	var result []AggregateGroup
	for _, group := range Groups {
		if present[group] {
			result = append(result, group)
		}
	}
	return result
}

// ExpandAll expands a list of groups into the union of their raw
// aggregations, preserving group order and each group's canonical member
// order. This is the shape the backend expects when a rule is persisted.
func ExpandAll(groups []AggregateGroup) []RawAggregation {
	var result []RawAggregation
	seen := make(map[RawAggregation]bool)
	for _, group := range groups {
		for _, agg := range Expand(group) {
			if !seen[agg] {
				seen[agg] = true
				result = append(result, agg)
			}
		}
	}
	return result
}

// GroupLabel returns the human-readable label for a group, as shown next
// to its checkbox in the rule form.
func GroupLabel(group AggregateGroup) string {
	switch group {
	case GroupCount:
		return "count"
	case GroupCountUnique:
		return "unique count"
	case GroupMinMax:
		return "min, max, sum, avg"
	case GroupPercentiles:
		return "percentiles"
	default:
		return string(group)
	}
}

// GroupTitle returns the tooltip text for a group.
func GroupTitle(group AggregateGroup) string {
	switch group {
	case GroupCount:
		return "Number of matching spans"
	case GroupCountUnique:
		return "Number of distinct values"
	case GroupMinMax:
		return "Minimum, maximum, sum and average of the value"
	case GroupPercentiles:
		return "50th, 75th, 90th, 95th and 99th percentile of the value"
	default:
		return string(group)
	}
}

// Symbol returns a short glyph used in compact aggregate listings.
func Symbol(agg RawAggregation) string {
	switch agg {
	case RawCount:
		return "#"
	case RawCountUnique:
		return "u"
	case RawMin:
		return "↓"
	case RawMax:
		return "↑"
	case RawSum:
		return "Σ"
	case RawAvg:
		return "μ"
	default:
		return string(agg)
	}
}
