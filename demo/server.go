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

package demo

import (
	"fmt"

	"github.com/keradus/sentry/core/ruleconfig"
	"github.com/keradus/sentry/core/rules"
	"github.com/keradus/sentry/core/server"
)

// SetupDemoServer creates a server seeded with demo rules, releases and
// attribute stats.
func SetupDemoServer() (*server.Server, error) {
	store := rules.NewMemoryStore()

	loader, err := ruleconfig.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("failed to create rule loader: %w", err)
	}
	fixtures, err := loader.Parse([]byte(RuleFixtures))
	if err != nil {
		return nil, fmt.Errorf("failed to parse demo rules: %w", err)
	}
	for _, rule := range fixtures {
		if _, err := store.Save(rule); err != nil {
			return nil, fmt.Errorf("failed to seed demo rule for %q: %w", rule.SpanAttribute, err)
		}
	}

	srv, err := server.NewServer(store)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	srv.SetReleaseSource(NewReleaseSource())
	srv.SetAttributeStatsSource(NewStatsSource())
	return srv, nil
}
