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

// Package server wires the dashboard's HTTP surface: the rule list, the
// rule editor form (standalone or inside the modal wrapper), the JSON
// rule API and the release summary panel.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/keradus/sentry/core/aggregates"
	"github.com/keradus/sentry/core/cardinality"
	"github.com/keradus/sentry/core/query"
	"github.com/keradus/sentry/core/releases"
	"github.com/keradus/sentry/core/rendering"
	"github.com/keradus/sentry/core/rules"
	"github.com/keradus/sentry/core/views"
)

// ReleaseSource provides release data for the summary panel.
type ReleaseSource interface {
	// GetRelease returns a release and its per-project stats by version,
	// or false if the version is unknown.
	GetRelease(version string) (releases.Release, []releases.ProjectStats, bool)
}

// AttributeStatsSource provides cardinality statistics for span attributes.
type AttributeStatsSource interface {
	// GetStats returns observed stats for the given attribute names.
	// Attributes without recorded stats are omitted.
	GetStats(attributes []string) []cardinality.Stats
}

// Server represents the dashboard server with all its dependencies.
type Server struct {
	store         rules.Store
	renderer      *rendering.Renderer
	releaseSource ReleaseSource
	attrStats     AttributeStatsSource
	condIDs       rules.ConditionIDGenerator
	now           func() time.Time
}

// NewServer creates a new server backed by the given rule store.
func NewServer(store rules.Store) (*Server, error) {
	renderer, err := rendering.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return &Server{
		store:    store,
		renderer: renderer,
		now:      time.Now,
	}, nil
}

// SetReleaseSource sets the provider for the release summary panel.
func (s *Server) SetReleaseSource(source ReleaseSource) {
	s.releaseSource = source
}

// SetAttributeStatsSource sets the provider for tag cardinality warnings.
func (s *Server) SetAttributeStatsSource(source AttributeStatsSource) {
	s.attrStats = source
}

// RegisterRoutes registers all handlers on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/rules", s.HandleRuleList)
	mux.HandleFunc("/rules/edit", s.HandleRuleForm)
	mux.HandleFunc("/rules/save", s.HandleRuleSave)
	mux.HandleFunc("/api/0/rules", s.HandleRuleAPI)
	mux.HandleFunc("/releases/summary", s.HandleReleaseSummary)
}

// HandleRuleList renders the rule list page.
func (s *Server) HandleRuleList(w http.ResponseWriter, r *http.Request) {
	vm := views.NewRuleListViewModel(s.store.List())
	if err := s.renderer.RenderRuleList(w, vm); err != nil {
		log.Printf("Failed to render rule list: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleRuleForm renders the rule editor, standalone or inside the modal
// wrapper depending on the URL state.
func (s *Server) HandleRuleForm(w http.ResponseWriter, r *http.Request) {
	q := query.NewEditorQuery(r.URL)

	rule := &rules.ExtractionRule{}
	if q.RuleID != "" {
		rule = s.store.Get(q.RuleID)
		if rule == nil {
			http.NotFound(w, r)
			return
		}
	}
	// Group selection in the URL overrides the stored selection, so
	// checkbox toggles survive a page reload without a submit.
	if len(q.Groups) > 0 {
		rule.SetGroups(q.Groups)
	}

	s.renderForm(w, rule, q, nil)
}

// HandleRuleSave handles the form submission, re-rendering the form with
// validation errors or persisting the rule and redirecting to the list.
func (s *Server) HandleRuleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	rule := s.ruleFromForm(r)
	if result := rules.Validate(rule); result.HasErrors() {
		q := &query.EditorQuery{Path: "/rules/edit", RuleID: rule.ID, Groups: rule.Groups()}
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderForm(w, rule, q, result)
		return
	}

	saved, err := s.store.Save(rule)
	if err != nil {
		log.Printf("Failed to save rule: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	log.Printf("Saved extraction rule %s for %s", saved.ID, saved.SpanAttribute)
	http.Redirect(w, r, "/rules", http.StatusSeeOther)
}

// ruleFromForm decodes the submitted form into a rule. All values are
// external input: unknown aggregate groups are dropped, condition IDs
// that fail to parse are treated as new conditions.
func (s *Server) ruleFromForm(r *http.Request) *rules.ExtractionRule {
	rule := &rules.ExtractionRule{
		ID:            r.PostFormValue("id"),
		SpanAttribute: r.PostFormValue("spanAttribute"),
		Unit:          r.PostFormValue("unit"),
	}

	rule.SetGroups(aggregates.ParseGroups(r.PostForm["groups"]))

	for _, tag := range r.PostForm["tags"] {
		if tag != "" {
			rule.Tags = append(rule.Tags, tag)
		}
	}

	ids := r.PostForm["conditionIDs"]
	queries := r.PostForm["conditionQueries"]
	for i, rawID := range ids {
		if i >= len(queries) {
			break
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || id == 0 {
			id = s.condIDs.Next()
		}
		rule.Conditions = append(rule.Conditions, rules.Condition{ID: id, Query: queries[i]})
	}
	return rule
}

func (s *Server) renderForm(w http.ResponseWriter, rule *rules.ExtractionRule, q *query.EditorQuery, validation *rules.ValidationResult) {
	vm := views.NewRuleFormViewModel(rule, q, validation, s.tagWarnings(rule.Tags))

	if q.Modal {
		body, err := s.renderer.RuleFormHTML(vm)
		if err != nil {
			log.Printf("Failed to render rule form: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		modal := views.NewModalViewModel(vm.Title, q.WithModal(false), body)
		if err := s.renderer.RenderModal(w, modal); err != nil {
			log.Printf("Failed to render modal: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	if err := s.renderer.RenderRuleForm(w, vm); err != nil {
		log.Printf("Failed to render rule form: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// tagWarnings returns cardinality warnings for the given tags, or nil when
// no stats source is configured.
func (s *Server) tagWarnings(tags []string) map[string]string {
	if s.attrStats == nil || len(tags) == 0 {
		return nil
	}
	return cardinality.Warnings(s.attrStats.GetStats(tags))
}

// HandleReleaseSummary renders the release summary panel for the version
// given in the "version" query parameter.
func (s *Server) HandleReleaseSummary(w http.ResponseWriter, r *http.Request) {
	if s.releaseSource == nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	version := r.URL.Query().Get("version")
	release, stats, ok := s.releaseSource.GetRelease(version)
	if !ok {
		http.NotFound(w, r)
		return
	}

	vm := views.NewReleaseSummaryViewModel(release, stats, s.now())
	if err := s.renderer.RenderReleaseSummary(w, vm); err != nil {
		log.Printf("Failed to render release summary: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
