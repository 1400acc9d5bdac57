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

package crud

import (
	"context"

	"github.com/mossrock/crudbase/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// Column names every managed model is expected to carry. Models embed
// types.SoftDeleteModel to get them.
const (
	ColumnID        = "id"
	ColumnActive    = "is_active"
	ColumnDeleted   = "is_deleted"
	ColumnUpdatedAt = "updated_at"
)

// Reader defines the read side of the store. Unless WithDeleted is
// passed, reads only see live rows (is_active and not is_deleted).
type Reader[T any] interface {
	// Get fetches a single live row by primary key. A missing row
	// surfaces as sql.ErrNoRows.
	Get(ctx context.Context, id any) (*T, error)

	// FilterBy fetches the first live row matching the filter set.
	FilterBy(ctx context.Context, f Filters, opts ...QueryOption) (*T, error)

	// List fetches every matching live row without pagination.
	List(ctx context.Context, f Filters, opts ...QueryOption) ([]*T, error)

	// GetMulti fetches a page of matching live rows. Ordering comes from
	// the page request and defaults to id descending.
	GetMulti(ctx context.Context, f Filters, page *types.PageRequest, opts ...QueryOption) (*types.Pagination[T], error)

	// Count counts matching live rows.
	Count(ctx context.Context, f Filters) (int, error)

	// Exists reports whether any row matches, soft-deleted rows included.
	Exists(ctx context.Context, f Filters) (bool, error)

	// ExistsExcluding behaves like Exists but ignores the row with the
	// given primary key, for uniqueness checks during updates.
	ExistsExcluding(ctx context.Context, f Filters, id any) (bool, error)
}

// Writer defines the write side of the store.
type Writer[T any] interface {
	// Create inserts the given entities. Multiple entities are inserted
	// inside a single transaction.
	Create(ctx context.Context, entities ...*T) error

	// Update writes an entity by primary key. With columns given, only
	// those columns are written.
	Update(ctx context.Context, entity *T, columns ...string) error

	// Patch writes the given column values onto the row with the given
	// primary key. Unknown columns in the patch are skipped.
	Patch(ctx context.Context, id any, patch map[string]any) error

	// Remove soft-deletes a row: it clears is_active and sets is_deleted,
	// leaving the row in storage.
	Remove(ctx context.Context, id any) error

	// RemoveMulti physically deletes every row matching the filter set.
	// An empty filter set deletes every row of the table.
	RemoveMulti(ctx context.Context, f Filters) error

	// HardDelete physically deletes a row by primary key, regardless of
	// its soft-delete flags.
	HardDelete(ctx context.Context, id any) error
}

// TxWriter mirrors Writer for operations inside a caller-owned transaction.
type TxWriter[T any] interface {
	CreateTx(ctx context.Context, tx *bun.Tx, entities ...*T) error
	UpdateTx(ctx context.Context, tx *bun.Tx, entity *T, columns ...string) error
	RemoveTx(ctx context.Context, tx *bun.Tx, id any) error
	HardDeleteTx(ctx context.Context, tx *bun.Tx, id any) error
}

// Store combines reads, writes, and transactional writes, and exposes
// Bun query builders for cases the generic surface does not cover.
type Store[T any] interface {
	Reader[T]
	Writer[T]
	TxWriter[T]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}

type orderSpec struct {
	column string
	desc   bool
}

type queryConfig struct {
	orders      []orderSpec
	reversed    bool
	withDeleted bool
}

// QueryOption tunes a single read operation.
type QueryOption func(*queryConfig)

// WithOrder orders results by the given column. Columns unknown to the
// model are skipped.
func WithOrder(column string, desc bool) QueryOption {
	return func(cfg *queryConfig) {
		cfg.orders = append(cfg.orders, orderSpec{column: column, desc: desc})
	}
}

// WithReversed orders results by id descending with NULLs last.
func WithReversed() QueryOption {
	return func(cfg *queryConfig) { cfg.reversed = true }
}

// WithDeleted includes soft-deleted rows in the read.
func WithDeleted() QueryOption {
	return func(cfg *queryConfig) { cfg.withDeleted = true }
}

func newQueryConfig(opts []QueryOption) *queryConfig {
	cfg := &queryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
