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

package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store defines access to persisted extraction rules.
// Implementations must be safe for concurrent use by HTTP handlers.
type Store interface {
	// List returns all rules ordered by span attribute name.
	List() []*ExtractionRule
	// Get returns a rule by ID, or nil if not found.
	Get(id string) *ExtractionRule
	// Save persists a rule. A rule without an ID is assigned one. Saving
	// also promotes temporary condition IDs to persisted ones.
	Save(rule *ExtractionRule) (*ExtractionRule, error)
	// Delete removes a rule by ID.
	Delete(id string) error
}

// MemoryStore is an in-memory Store used by the demo server and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	rules    map[string]*ExtractionRule
	nextCond int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rules: make(map[string]*ExtractionRule)}
}

// List returns all rules ordered by span attribute name.
func (s *MemoryStore) List() []*ExtractionRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*ExtractionRule, 0, len(s.rules))
	for _, rule := range s.rules {
		result = append(result, rule.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SpanAttribute != result[j].SpanAttribute {
			return result[i].SpanAttribute < result[j].SpanAttribute
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Get returns a rule by ID, or nil if not found.
func (s *MemoryStore) Get(id string) *ExtractionRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, ok := s.rules[id]
	if !ok {
		return nil
	}
	return rule.Clone()
}

// Save persists a rule, assigning an ID if it has none and replacing
// temporary condition IDs with persisted positive ones. The stored copy is
// detached from the argument; Save returns the stored version.
func (s *MemoryStore) Save(rule *ExtractionRule) (*ExtractionRule, error) {
	if result := Validate(rule); result.HasErrors() {
		return nil, fmt.Errorf("rule failed validation: %v", result.FieldErrors)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := rule.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	for _, cond := range stored.Conditions {
		if cond.ID > s.nextCond {
			s.nextCond = cond.ID
		}
	}
	for i := range stored.Conditions {
		if stored.Conditions[i].IsNew() {
			s.nextCond++
			stored.Conditions[i].ID = s.nextCond
		}
	}
	s.rules[stored.ID] = stored
	return stored.Clone(), nil
}

// Delete removes a rule by ID.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return fmt.Errorf("rule %q not found", id)
	}
	delete(s.rules, id)
	return nil
}
