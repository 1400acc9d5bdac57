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

// Package crudbase glues an HTTP web framework to the ORM: a generic
// service per model that shares filtering, sorting, pagination,
// soft-delete, and create/update error mapping.
package crudbase

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/uptrace/bun"

	"github.com/mossrock/crudbase/crud"
	"github.com/mossrock/crudbase/database"
	"github.com/mossrock/crudbase/httperr"
	"github.com/mossrock/crudbase/types"
)

// Service is the HTTP-facing surface of a single model's data access.
// Read paths see live rows only; single-row reads translate missing
// rows into 404-class errors and write paths translate storage
// integrity violations into 400-class errors.
type Service[T any] interface {
	// Get returns a live row by id, or a 404-class error.
	Get(ctx context.Context, id any) (*T, error)

	// TryGet returns a live row by id, or nil without error when missing.
	TryGet(ctx context.Context, id any) (*T, error)

	// FilterBy returns the first live row matching the filter set, or a
	// 404-class error.
	FilterBy(ctx context.Context, f crud.Filters, opts ...crud.QueryOption) (*T, error)

	// TryFilterBy is FilterBy without the 404; missing rows yield nil.
	TryFilterBy(ctx context.Context, f crud.Filters, opts ...crud.QueryOption) (*T, error)

	// List returns every matching live row.
	List(ctx context.Context, f crud.Filters, opts ...crud.QueryOption) ([]*T, error)

	// Page returns a page of matching live rows.
	Page(ctx context.Context, f crud.Filters, page *types.PageRequest) (*types.Pagination[T], error)

	// Count counts matching live rows.
	Count(ctx context.Context, f crud.Filters) (int, error)

	// MustNotExist returns a 400-class already-exists error when any row
	// matches the filter set, soft-deleted rows included.
	MustNotExist(ctx context.Context, f crud.Filters) error

	// MustNotExistExcluding is MustNotExist ignoring the row with the
	// given id, for uniqueness checks before updates.
	MustNotExistExcluding(ctx context.Context, f crud.Filters, id any) error

	// Create validates and inserts entities.
	Create(ctx context.Context, entities ...*T) error

	// Update validates and writes an entity by primary key; with columns
	// given, only those columns are written.
	Update(ctx context.Context, entity *T, columns ...string) error

	// Patch writes the given column values onto the row with the given id.
	Patch(ctx context.Context, id any, patch map[string]any) error

	// Remove soft-deletes a row by id.
	Remove(ctx context.Context, id any) error

	// RemoveMulti physically deletes every row matching the filter set.
	RemoveMulti(ctx context.Context, f crud.Filters) error

	// HardDelete physically deletes a row by id.
	HardDelete(ctx context.Context, id any) error

	// Store exposes the underlying store for cases the service surface
	// does not cover.
	Store() crud.Store[T]
}

type baseServiceImpl[T any] struct {
	store    crud.Store[T]
	db       *bun.DB
	name     string
	validate *validator.Validate
	once     sync.Once
}

// NewService returns a Service backed by the global database connection,
// resolved lazily on first use.
func NewService[T any]() Service[T] {
	return &baseServiceImpl[T]{
		name:     displayName[T](),
		validate: newValidator(),
	}
}

// NewServiceWithDB returns a Service backed by the given Bun DB.
func NewServiceWithDB[T any](db *bun.DB) Service[T] {
	return &baseServiceImpl[T]{
		db:       db,
		name:     displayName[T](),
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func (s *baseServiceImpl[T]) baseStore() crud.Store[T] {
	s.once.Do(func() {
		if s.db == nil {
			s.db = database.GetDB()
		}
		s.store = crud.NewStore[T](s.db)
	})
	return s.store
}

func (s *baseServiceImpl[T]) Store() crud.Store[T] { return s.baseStore() }

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	entity, err := s.baseStore().Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperr.NotFound(s.name)
		}
		return nil, err
	}
	return entity, nil
}

func (s *baseServiceImpl[T]) TryGet(ctx context.Context, id any) (*T, error) {
	entity, err := s.baseStore().Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entity, err
}

func (s *baseServiceImpl[T]) FilterBy(ctx context.Context, f crud.Filters, opts ...crud.QueryOption) (*T, error) {
	entity, err := s.baseStore().FilterBy(ctx, f, opts...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperr.NotFound(s.name)
		}
		return nil, err
	}
	return entity, nil
}

func (s *baseServiceImpl[T]) TryFilterBy(ctx context.Context, f crud.Filters, opts ...crud.QueryOption) (*T, error) {
	entity, err := s.baseStore().FilterBy(ctx, f, opts...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entity, err
}

func (s *baseServiceImpl[T]) List(ctx context.Context, f crud.Filters, opts ...crud.QueryOption) ([]*T, error) {
	return s.baseStore().List(ctx, f, opts...)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, f crud.Filters, page *types.PageRequest) (*types.Pagination[T], error) {
	return s.baseStore().GetMulti(ctx, f, page)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, f crud.Filters) (int, error) {
	return s.baseStore().Count(ctx, f)
}

func (s *baseServiceImpl[T]) MustNotExist(ctx context.Context, f crud.Filters) error {
	exists, err := s.baseStore().Exists(ctx, f)
	if err != nil {
		return err
	}
	if exists {
		return httperr.AlreadyExists(s.name)
	}
	return nil
}

func (s *baseServiceImpl[T]) MustNotExistExcluding(ctx context.Context, f crud.Filters, id any) error {
	exists, err := s.baseStore().ExistsExcluding(ctx, f, id)
	if err != nil {
		return err
	}
	if exists {
		return httperr.AlreadyExists(s.name)
	}
	return nil
}

func (s *baseServiceImpl[T]) Create(ctx context.Context, entities ...*T) error {
	for _, entity := range entities {
		if err := s.validateEntity(entity); err != nil {
			return err
		}
	}
	return s.wrapWriteError(s.baseStore().Create(ctx, entities...))
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, entity *T, columns ...string) error {
	if len(columns) == 0 {
		if err := s.validateEntity(entity); err != nil {
			return err
		}
	}
	return s.wrapWriteError(s.baseStore().Update(ctx, entity, columns...))
}

func (s *baseServiceImpl[T]) Patch(ctx context.Context, id any, patch map[string]any) error {
	return s.wrapWriteError(s.baseStore().Patch(ctx, id, patch))
}

func (s *baseServiceImpl[T]) Remove(ctx context.Context, id any) error {
	return s.baseStore().Remove(ctx, id)
}

func (s *baseServiceImpl[T]) RemoveMulti(ctx context.Context, f crud.Filters) error {
	return s.baseStore().RemoveMulti(ctx, f)
}

func (s *baseServiceImpl[T]) HardDelete(ctx context.Context, id any) error {
	return s.baseStore().HardDelete(ctx, id)
}

func (s *baseServiceImpl[T]) validateEntity(entity *T) error {
	err := s.validate.Struct(entity)
	if err == nil {
		return nil
	}
	var ive *validator.InvalidValidationError
	if errors.As(err, &ive) {
		// T is not a struct; nothing to validate.
		return nil
	}
	return httperr.BadRequest(httperr.CodeValidationError, err.Error(), err)
}

// wrapWriteError maps storage integrity violations to 400-class errors
// carrying the driver error text; everything else propagates untouched.
func (s *baseServiceImpl[T]) wrapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if database.IsDuplicateKey(err) {
		return httperr.BadRequest(httperr.CodeAlreadyExists, err.Error(), err)
	}
	if database.IsIntegrityViolation(err) {
		return httperr.BadRequest(httperr.CodeIntegrityError, err.Error(), err)
	}
	return err
}

// displayName derives a human-readable model name from the type name:
// "SystemConfig" becomes "System Config".
func displayName[T any]() string {
	name := reflect.TypeFor[T]().Name()
	if name == "" {
		name = "record"
	}
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
