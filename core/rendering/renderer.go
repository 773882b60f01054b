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

// Package rendering renders view models to HTML through safehtml
// templates, so handler output is safe by construction.
package rendering

import (
	"embed"
	"io"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/keradus/sentry/core/views"
)

//go:embed templates/*
var templateFS embed.FS

// Renderer handles rendering of view models to HTML.
type Renderer struct {
	ruleFormTemplate       *template.Template
	ruleListTemplate       *template.Template
	releaseSummaryTemplate *template.Template
	modalTemplate          *template.Template
}

// NewRenderer creates a renderer with all dashboard templates parsed.
func NewRenderer() (*Renderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)

	ruleForm, err := template.New("rule_form.html").ParseFS(trustedFS, "templates/rule_form.html")
	if err != nil {
		return nil, err
	}
	ruleList, err := template.New("rule_list.html").ParseFS(trustedFS, "templates/rule_list.html")
	if err != nil {
		return nil, err
	}
	releaseSummary, err := template.New("release_summary.html").ParseFS(trustedFS, "templates/release_summary.html")
	if err != nil {
		return nil, err
	}
	modal, err := template.New("modal.html").ParseFS(trustedFS, "templates/modal.html")
	if err != nil {
		return nil, err
	}

	return &Renderer{
		ruleFormTemplate:       ruleForm,
		ruleListTemplate:       ruleList,
		releaseSummaryTemplate: releaseSummary,
		modalTemplate:          modal,
	}, nil
}

// RenderRuleForm renders the rule form page to the provided writer.
func (r *Renderer) RenderRuleForm(w io.Writer, vm views.RuleFormViewModel) error {
	return r.ruleFormTemplate.Execute(w, vm)
}

// RuleFormHTML renders the rule form to a safehtml.HTML value, for
// embedding inside the modal wrapper.
func (r *Renderer) RuleFormHTML(vm views.RuleFormViewModel) (safehtml.HTML, error) {
	return r.ruleFormTemplate.ExecuteToHTML(vm)
}

// RenderRuleList renders the rule list page to the provided writer.
func (r *Renderer) RenderRuleList(w io.Writer, vm views.RuleListViewModel) error {
	return r.ruleListTemplate.Execute(w, vm)
}

// RenderReleaseSummary renders the release summary panel.
func (r *Renderer) RenderReleaseSummary(w io.Writer, vm views.ReleaseSummaryViewModel) error {
	return r.releaseSummaryTemplate.Execute(w, vm)
}

// RenderModal renders content inside the modal dialog wrapper.
func (r *Renderer) RenderModal(w io.Writer, vm views.ModalViewModel) error {
	return r.modalTemplate.Execute(w, vm)
}
