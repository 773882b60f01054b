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

// Package query parses and serializes the rule editor's URL state. All UI
// state (which rule is open, which aggregate groups are ticked, which
// panels are expanded) lives in the URL so views stay shareable and the
// server stays stateless.
package query

import (
	"net/url"
	"strings"

	"github.com/google/safehtml"
	"github.com/keradus/sentry/core/aggregates"
)

// EditorQuery represents the parsed state of a rule editor URL.
type EditorQuery struct {
	// Base path (e.g., "/rules/edit")
	Path string

	// RuleID is the rule being edited; empty when creating a new rule.
	RuleID string
	// Groups are the currently ticked aggregate groups, in display order.
	Groups []aggregates.AggregateGroup
	// Expanded lists the expanded form panels (e.g., "conditions", "tags").
	Expanded []string
	// Modal is true when the editor is shown inside the modal wrapper.
	Modal bool
}

// NewEditorQuery creates an EditorQuery from a URL. Unknown aggregate
// group tags in the URL are dropped; the URL is external input.
func NewEditorQuery(u *url.URL) *EditorQuery {
	state := &EditorQuery{Path: u.Path}

	q := u.Query()
	state.RuleID = q.Get("rule")
	state.Modal = q.Get("modal") == "1"

	if groupsStr := q.Get("groups"); groupsStr != "" {
		state.Groups = aggregates.ParseGroups(strings.Split(groupsStr, ","))
	}
	if expandedStr := q.Get("expanded"); expandedStr != "" {
		state.Expanded = strings.Split(expandedStr, ",")
	}
	return state
}

// Clone creates a deep copy of the EditorQuery.
func (s *EditorQuery) Clone() *EditorQuery {
	clone := &EditorQuery{
		Path:     s.Path,
		RuleID:   s.RuleID,
		Groups:   make([]aggregates.AggregateGroup, len(s.Groups)),
		Expanded: make([]string, len(s.Expanded)),
		Modal:    s.Modal,
	}
	copy(clone.Groups, s.Groups)
	copy(clone.Expanded, s.Expanded)
	return clone
}

// ToURL converts the EditorQuery back to a URL string.
func (s *EditorQuery) ToURL() string {
	u := &url.URL{Path: s.Path}

	q := u.Query()
	if s.RuleID != "" {
		q.Set("rule", s.RuleID)
	}
	if len(s.Groups) > 0 {
		parts := make([]string, len(s.Groups))
		for i, group := range s.Groups {
			parts[i] = string(group)
		}
		q.Set("groups", strings.Join(parts, ","))
	}
	if len(s.Expanded) > 0 {
		q.Set("expanded", strings.Join(s.Expanded, ","))
	}
	if s.Modal {
		q.Set("modal", "1")
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// ToSafeURL converts the EditorQuery to a safehtml.URL.
func (s *EditorQuery) ToSafeURL() safehtml.URL {
	return safehtml.URLSanitized(s.ToURL())
}

// IsGroupSelected checks if an aggregate group is currently ticked.
func (s *EditorQuery) IsGroupSelected(group aggregates.AggregateGroup) bool {
	for _, g := range s.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// WithGroupToggled returns a URL with the aggregate group toggled. The
// group list is kept in display order no matter the toggle sequence.
func (s *EditorQuery) WithGroupToggled(group aggregates.AggregateGroup) safehtml.URL {
	newState := s.Clone()
	found := false
	newGroups := make([]aggregates.AggregateGroup, 0, len(s.Groups))
	for _, g := range s.Groups {
		if g == group {
			found = true
		} else {
			newGroups = append(newGroups, g)
		}
	}
	if !found {
		newGroups = append(newGroups, group)
	}

	// Reorder into canonical display order.
	selected := make(map[aggregates.AggregateGroup]bool, len(newGroups))
	for _, g := range newGroups {
		selected[g] = true
	}
	newState.Groups = newState.Groups[:0]
	for _, g := range aggregates.Groups {
		if selected[g] {
			newState.Groups = append(newState.Groups, g)
		}
	}
	return newState.ToSafeURL()
}

// IsPanelExpanded checks if a form panel is in the expanded list.
func (s *EditorQuery) IsPanelExpanded(panel string) bool {
	for _, exp := range s.Expanded {
		if exp == panel {
			return true
		}
	}
	return false
}

// WithPanelToggled returns a URL with the form panel expansion toggled.
func (s *EditorQuery) WithPanelToggled(panel string) safehtml.URL {
	newState := s.Clone()
	found := false
	newExpanded := make([]string, 0, len(s.Expanded))
	for _, exp := range s.Expanded {
		if exp == panel {
			found = true
		} else {
			newExpanded = append(newExpanded, exp)
		}
	}
	if found {
		newState.Expanded = newExpanded
	} else {
		newState.Expanded = append(newState.Expanded, panel)
	}
	return newState.ToSafeURL()
}

// WithModal returns a URL with the modal wrapper shown or hidden.
func (s *EditorQuery) WithModal(show bool) safehtml.URL {
	newState := s.Clone()
	newState.Modal = show
	return newState.ToSafeURL()
}

// WithRule returns a URL pointing the editor at a different rule.
func (s *EditorQuery) WithRule(ruleID string) safehtml.URL {
	newState := s.Clone()
	newState.RuleID = ruleID
	return newState.ToSafeURL()
}
