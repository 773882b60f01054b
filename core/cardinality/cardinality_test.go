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

package cardinality

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		distinct int64
		total    int64
		want     Class
	}{
		{"all distinct", 1000, 1000, ClassUnique},
		{"almost all distinct", 950, 1000, ClassNearUnique},
		{"enum like", 4, 1000, ClassEnumLike},
		{"low", 150, 100000, ClassLow},
		{"high", 5000, 100000, ClassHigh},
		{"no rows", 0, 0, ClassEnumLike},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.distinct, tt.total); got != tt.want {
				t.Errorf("Classify(%d, %d) = %q, want %q", tt.distinct, tt.total, got, tt.want)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	stats := []Stats{
		{Attribute: "user.id", Distinct: 99000, Total: 100000},
		{Attribute: "http.method", Distinct: 7, Total: 100000},
		{Attribute: "span.description", Distinct: 40000, Total: 100000},
	}
	warnings := Warnings(stats)
	if _, ok := warnings["user.id"]; !ok {
		t.Error("expected a warning for user.id")
	}
	if _, ok := warnings["span.description"]; !ok {
		t.Error("expected a warning for span.description")
	}
	if _, ok := warnings["http.method"]; ok {
		t.Error("did not expect a warning for http.method")
	}
}
