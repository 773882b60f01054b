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

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/keradus/sentry/core/aggregates"
	"github.com/keradus/sentry/core/rules"
)

// ruleSchemaJSON is the JSON Schema for rule create/update payloads.
// Aggregate identifiers are validated as plain strings here; unknown ones
// are dropped during decoding so payloads from newer backends still pass.
const ruleSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["spanAttribute", "aggregates"],
  "properties": {
    "id": {"type": "string"},
    "spanAttribute": {"type": "string", "minLength": 1},
    "unit": {"type": "string"},
    "aggregates": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 1
    },
    "tags": {
      "type": "array",
      "items": {"type": "string"}
    },
    "conditions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["value"],
        "properties": {
          "id": {"type": "integer"},
          "value": {"type": "string", "minLength": 1}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// rulePayload mirrors the JSON wire format of a rule.
type rulePayload struct {
	ID            string             `json:"id,omitempty"`
	SpanAttribute string             `json:"spanAttribute"`
	Unit          string             `json:"unit,omitempty"`
	Aggregates    []string           `json:"aggregates"`
	Tags          []string           `json:"tags,omitempty"`
	Conditions    []conditionPayload `json:"conditions,omitempty"`
}

type conditionPayload struct {
	ID    int64  `json:"id,omitempty"`
	Value string `json:"value"`
}

// ValidateRulePayload validates a JSON rule payload against the schema,
// returning the individual violations on failure.
func ValidateRulePayload(payload []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(ruleSchemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("error validating rule payload: %w", err)
	}
	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("invalid rule payload: %s", strings.Join(messages, "; "))
	}
	return nil
}

// HandleRuleAPI serves the JSON rule API: GET lists rules, POST creates or
// updates one. Payloads are schema-validated before decoding.
func (s *Server) HandleRuleAPI(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.apiListRules(w)
	case http.MethodPost, http.MethodPut:
		s.apiSaveRule(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiListRules(w http.ResponseWriter) {
	payloads := make([]rulePayload, 0)
	for _, rule := range s.store.List() {
		payloads = append(payloads, payloadFromRule(rule))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) apiSaveRule(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := ValidateRulePayload(body); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload rulePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed JSON")
		return
	}

	rule := ruleFromPayload(payload, &s.condIDs)
	if result := rules.Validate(rule); result.HasErrors() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": result.FieldErrors})
		return
	}

	saved, err := s.store.Save(rule)
	if err != nil {
		log.Printf("Failed to save rule via API: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save rule")
		return
	}

	status := http.StatusOK
	if payload.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, payloadFromRule(saved))
}

// ruleFromPayload converts a validated payload into a rule. Aggregate
// identifiers pass through the boundary decode, so unknown values are
// silently dropped; a payload left with no known aggregates then fails
// rule validation.
func ruleFromPayload(payload rulePayload, condIDs *rules.ConditionIDGenerator) *rules.ExtractionRule {
	rule := &rules.ExtractionRule{
		ID:            payload.ID,
		SpanAttribute: payload.SpanAttribute,
		Unit:          payload.Unit,
		Tags:          payload.Tags,
		Aggregations:  aggregates.ParseRawAggregations(payload.Aggregates),
	}
	for _, cond := range payload.Conditions {
		id := cond.ID
		if id == 0 {
			id = condIDs.Next()
		}
		rule.Conditions = append(rule.Conditions, rules.Condition{ID: id, Query: cond.Value})
	}
	return rule
}

func payloadFromRule(rule *rules.ExtractionRule) rulePayload {
	payload := rulePayload{
		ID:            rule.ID,
		SpanAttribute: rule.SpanAttribute,
		Unit:          rule.Unit,
		Tags:          rule.Tags,
	}
	for _, agg := range rule.Aggregations {
		payload.Aggregates = append(payload.Aggregates, string(agg))
	}
	for _, cond := range rule.Conditions {
		payload.Conditions = append(payload.Conditions, conditionPayload{ID: cond.ID, Value: cond.Query})
	}
	return payload
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}
