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
	"reflect"
	"sort"
	"time"

	"github.com/mossrock/crudbase/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type baseStoreImpl[T any] struct {
	db *bun.DB
}

// NewStore returns a generic soft-delete aware store backed by the
// provided Bun DB.
func NewStore[T any](db *bun.DB) Store[T] {
	return &baseStoreImpl[T]{db: db}
}

func (s *baseStoreImpl[T]) Dialect() schema.Dialect { return s.db.Dialect() }

func (s *baseStoreImpl[T]) NewSelect() *bun.SelectQuery { return s.db.NewSelect() }

func (s *baseStoreImpl[T]) NewInsert() *bun.InsertQuery { return s.db.NewInsert() }

func (s *baseStoreImpl[T]) NewUpdate() *bun.UpdateQuery { return s.db.NewUpdate() }

func (s *baseStoreImpl[T]) NewDelete() *bun.DeleteQuery { return s.db.NewDelete() }

func (s *baseStoreImpl[T]) table() *schema.Table {
	return s.db.Table(reflect.TypeFor[T]())
}

func (s *baseStoreImpl[T]) applyFilters(q *bun.SelectQuery, f Filters) *bun.SelectQuery {
	if len(f) == 0 {
		return q
	}
	return q.ApplyQueryBuilder(f.Apply(s.table(), s.db.Dialect().Name()))
}

// liveOnly restricts a query to rows that are active and not soft-deleted.
func (s *baseStoreImpl[T]) liveOnly(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Where("? = ?", bun.Ident(ColumnActive), true).
		Where("? = ?", bun.Ident(ColumnDeleted), false)
}

func (s *baseStoreImpl[T]) applyOrder(q *bun.SelectQuery, cfg *queryConfig) *bun.SelectQuery {
	if cfg.reversed {
		return q.OrderExpr("? DESC NULLS LAST", bun.Ident(ColumnID))
	}
	fields := s.table().FieldMap
	for _, o := range cfg.orders {
		if _, ok := fields[o.column]; !ok {
			continue
		}
		if o.desc {
			q = q.OrderExpr("? DESC NULLS LAST", bun.Ident(o.column))
		} else {
			q = q.OrderExpr("? ASC", bun.Ident(o.column))
		}
	}
	return q
}

func (s *baseStoreImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	var entity T
	err := s.liveOnly(s.db.NewSelect().Model(&entity)).
		Where("? = ?", bun.Ident(ColumnID), id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *baseStoreImpl[T]) FilterBy(ctx context.Context, f Filters, opts ...QueryOption) (*T, error) {
	cfg := newQueryConfig(opts)
	var entity T
	q := s.db.NewSelect().Model(&entity)
	if !cfg.withDeleted {
		q = s.liveOnly(q)
	}
	q = s.applyFilters(q, f)
	q = s.applyOrder(q, cfg)
	if err := q.Limit(1).Scan(ctx); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *baseStoreImpl[T]) List(ctx context.Context, f Filters, opts ...QueryOption) ([]*T, error) {
	cfg := newQueryConfig(opts)
	var entities []*T
	q := s.db.NewSelect().Model(&entities)
	if !cfg.withDeleted {
		q = s.liveOnly(q)
	}
	q = s.applyFilters(q, f)
	q = s.applyOrder(q, cfg)
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (s *baseStoreImpl[T]) GetMulti(ctx context.Context, f Filters, page *types.PageRequest, opts ...QueryOption) (*types.Pagination[T], error) {
	if page == nil {
		page = types.NewDefaultPageRequest(1, 0)
	}
	cfg := newQueryConfig(opts)
	var entities []*T
	q := s.db.NewSelect().Model(&entities)
	if !cfg.withDeleted {
		q = s.liveOnly(q)
	}
	q = s.applyFilters(q, f)

	pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())
	total, err := q.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}

	if orders := page.GetOrders(); len(orders) > 0 {
		q = q.Order(orders...)
	} else if len(cfg.orders) > 0 {
		q = s.applyOrder(q, cfg)
	} else {
		q = q.OrderExpr("? DESC NULLS LAST", bun.Ident(ColumnID))
	}

	err = q.Offset(page.GetOffset()).Limit(page.GetPageSize()).Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (s *baseStoreImpl[T]) Count(ctx context.Context, f Filters) (int, error) {
	q := s.liveOnly(s.db.NewSelect().Model((*T)(nil)))
	q = s.applyFilters(q, f)
	return q.Count(ctx)
}

func (s *baseStoreImpl[T]) Exists(ctx context.Context, f Filters) (bool, error) {
	q := s.applyFilters(s.db.NewSelect().Model((*T)(nil)), f)
	return q.Exists(ctx)
}

func (s *baseStoreImpl[T]) ExistsExcluding(ctx context.Context, f Filters, id any) (bool, error) {
	q := s.applyFilters(s.db.NewSelect().Model((*T)(nil)), f).
		Where("? != ?", bun.Ident(ColumnID), id)
	return q.Exists(ctx)
}

func (s *baseStoreImpl[T]) Create(ctx context.Context, entities ...*T) error {
	switch len(entities) {
	case 0:
		return nil
	case 1:
		_, err := s.db.NewInsert().Model(entities[0]).Exec(ctx)
		return err
	}
	// Multi-row inserts are atomic: either every row lands or none do.
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		models := append([]*T(nil), entities...)
		_, err := tx.NewInsert().Model(&models).Exec(ctx)
		return err
	})
}

func (s *baseStoreImpl[T]) CreateTx(ctx context.Context, tx *bun.Tx, entities ...*T) error {
	if len(entities) == 0 {
		return nil
	}
	models := append([]*T(nil), entities...)
	_, err := tx.NewInsert().Model(&models).Exec(ctx)
	return err
}

func (s *baseStoreImpl[T]) Update(ctx context.Context, entity *T, columns ...string) error {
	q := s.db.NewUpdate().Model(entity).WherePK()
	if len(columns) > 0 {
		q = q.Column(columns...)
	}
	_, err := q.Exec(ctx)
	return err
}

func (s *baseStoreImpl[T]) UpdateTx(ctx context.Context, tx *bun.Tx, entity *T, columns ...string) error {
	q := tx.NewUpdate().Model(entity).WherePK()
	if len(columns) > 0 {
		q = q.Column(columns...)
	}
	_, err := q.Exec(ctx)
	return err
}

func (s *baseStoreImpl[T]) Patch(ctx context.Context, id any, patch map[string]any) error {
	keys := make([]string, 0, len(patch))
	fields := s.table().FieldMap
	for k := range patch {
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	q := s.db.NewUpdate().Model((*T)(nil))
	for _, k := range keys {
		q = q.Set("? = ?", bun.Ident(k), patch[k])
	}
	q = s.touchUpdatedAt(q)
	_, err := q.Where("? = ?", bun.Ident(ColumnID), id).Exec(ctx)
	return err
}

func (s *baseStoreImpl[T]) Remove(ctx context.Context, id any) error {
	return s.remove(ctx, s.db.NewUpdate(), id)
}

func (s *baseStoreImpl[T]) RemoveTx(ctx context.Context, tx *bun.Tx, id any) error {
	return s.remove(ctx, tx.NewUpdate(), id)
}

func (s *baseStoreImpl[T]) remove(ctx context.Context, q *bun.UpdateQuery, id any) error {
	q = q.Model((*T)(nil)).
		Set("? = ?", bun.Ident(ColumnActive), false).
		Set("? = ?", bun.Ident(ColumnDeleted), true)
	q = s.touchUpdatedAt(q)
	_, err := q.Where("? = ?", bun.Ident(ColumnID), id).Exec(ctx)
	return err
}

func (s *baseStoreImpl[T]) touchUpdatedAt(q *bun.UpdateQuery) *bun.UpdateQuery {
	if _, ok := s.table().FieldMap[ColumnUpdatedAt]; ok {
		return q.Set("? = ?", bun.Ident(ColumnUpdatedAt), time.Now())
	}
	return q
}

func (s *baseStoreImpl[T]) RemoveMulti(ctx context.Context, f Filters) error {
	q := s.db.NewDelete().Model((*T)(nil))
	if len(f) > 0 {
		q = q.ApplyQueryBuilder(f.Apply(s.table(), s.db.Dialect().Name()))
	} else {
		q = q.Where("1 = 1")
	}
	_, err := q.Exec(ctx)
	return err
}

func (s *baseStoreImpl[T]) HardDelete(ctx context.Context, id any) error {
	_, err := s.db.NewDelete().Model((*T)(nil)).
		Where("? = ?", bun.Ident(ColumnID), id).
		Exec(ctx)
	return err
}

func (s *baseStoreImpl[T]) HardDeleteTx(ctx context.Context, tx *bun.Tx, id any) error {
	_, err := tx.NewDelete().Model((*T)(nil)).
		Where("? = ?", bun.Ident(ColumnID), id).
		Exec(ctx)
	return err
}
