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

package types

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// SoftDeleteModel is the embeddable base every managed model carries. A
// row is live while IsActive is true and IsDeleted is false; soft
// deletion flips both flags instead of removing the row. Inserts mark
// the row live unless IsDeleted was set explicitly, and both inserts
// and full-model updates refresh UpdatedAt.
type SoftDeleteModel struct {
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	IsActive  bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	IsDeleted bool      `bun:"is_deleted,notnull,default:false" json:"is_deleted"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*SoftDeleteModel)(nil)

// BeforeAppendModel maintains the liveness flags and timestamps. The
// method is promoted to embedding models, so Bun picks it up on every
// insert and update of a managed model.
func (m *SoftDeleteModel) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if !m.IsDeleted {
			m.IsActive = true
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		m.UpdatedAt = time.Now()
	case *bun.UpdateQuery:
		m.UpdatedAt = time.Now()
	}
	return nil
}

// Live reports whether the row is visible on default read paths.
func (m *SoftDeleteModel) Live() bool {
	return m.IsActive && !m.IsDeleted
}
