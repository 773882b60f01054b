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

// Package cardinality classifies span attributes by the number of distinct
// values they take. The rule form uses the classification to warn when a
// selected tag would explode the number of extracted metric series.
package cardinality

// Class describes the distribution shape of an attribute's values.
type Class string

const (
	ClassUnique     Class = "unique"
	ClassNearUnique Class = "near_unique"
	ClassHigh       Class = "high"
	ClassLow        Class = "low"
	ClassEnumLike   Class = "enum_like"
)

// Thresholds for classification. An attribute with at most EnumLikeMax
// distinct values behaves like an enumeration; anything above HighMin is
// considered high cardinality and produces a warning when tagged.
const (
	EnumLikeMax     = 20
	HighMin         = 200
	nearUniqueRatio = 0.9
)

// Classify determines the cardinality class from absolute distinct and
// total counts. Counts must already be absolute; callers converting from
// sampled statistics do so before calling.
func Classify(distinct, total int64) Class {
	if total > 0 && distinct == total {
		return ClassUnique
	}
	if total > 0 && float64(distinct)/float64(total) >= nearUniqueRatio {
		return ClassNearUnique
	}
	if distinct <= EnumLikeMax {
		return ClassEnumLike
	}
	if distinct <= HighMin {
		return ClassLow
	}
	return ClassHigh
}

// IsHigh reports whether a class should trigger the high-cardinality
// warning in the rule form.
func IsHigh(c Class) bool {
	return c == ClassHigh || c == ClassNearUnique || c == ClassUnique
}

// Stats holds observed value statistics for a span attribute.
type Stats struct {
	Attribute string
	Distinct  int64
	Total     int64
}

// Warnings returns a warning message per attribute whose cardinality class
// should be surfaced to the user, keyed by attribute name. Attributes with
// no recorded stats produce no warning.
func Warnings(stats []Stats) map[string]string {
	warnings := make(map[string]string)
	for _, s := range stats {
		if IsHigh(Classify(s.Distinct, s.Total)) {
			warnings[s.Attribute] = "This tag has many distinct values; grouping by it will create a large number of metric series."
		}
	}
	return warnings
}
