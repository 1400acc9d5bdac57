/*
 * Copyright 2026 mossrock.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/uptrace/bun"
)

var defaultRegistry = &modelRegistry{}

type registeredModel struct {
	instance any
	priority int
}

// modelRegistry stores model instances and exposes them in a
// deterministic creation order (ascending priority, then insertion).
type modelRegistry struct {
	mu     sync.RWMutex
	models []registeredModel
}

func (r *modelRegistry) register(instance any, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = append(r.models, registeredModel{instance: instance, priority: priority})
}

func (r *modelRegistry) instances() []any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]registeredModel, len(r.models))
	copy(sorted, r.models)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})
	out := make([]any, len(sorted))
	for i, m := range sorted {
		out[i] = m.instance
	}
	return out
}

// RegisterModel registers a model instance (a struct pointer compatible
// with Bun) for startup table creation.
func RegisterModel(instance any) {
	defaultRegistry.register(instance, 0)
}

// RegisterModelWithPriority registers a model with an explicit creation
// order; lower priorities are created first.
func RegisterModelWithPriority(instance any, priority int) {
	defaultRegistry.register(instance, priority)
}

// RegisteredModelInstances returns the registered models in creation order.
func RegisteredModelInstances() []any {
	return defaultRegistry.instances()
}

// CreateTables creates a table for every registered model if it does
// not already exist, in registration priority order.
func CreateTables(ctx context.Context, db bun.IDB) error {
	for _, model := range RegisteredModelInstances() {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}
	return nil
}
