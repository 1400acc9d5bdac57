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
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/mossrock/crudbase/types"
)

type storeItem struct {
	bun.BaseModel `bun:"table:store_items,alias:si"`
	types.SoftDeleteModel

	Name  string `bun:"name,notnull"`
	Email string `bun:"email,unique"`
	Age   int64  `bun:"age"`
}

func newStoreDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the
	// whole test.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.NewCreateTable().Model((*storeItem)(nil)).IfNotExists().Exec(context.Background())
	require.NoError(t, err)
	return db
}

func newItem(name string, age int64) *storeItem {
	return &storeItem{Name: name, Email: name + "@example.com", Age: age}
}

func seedItems(t *testing.T, store Store[storeItem], n int) []*storeItem {
	t.Helper()
	items := make([]*storeItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, newItem(fmt.Sprintf("user-%02d", i), int64(i)))
	}
	require.NoError(t, store.Create(context.Background(), items...))
	return items
}

func TestStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))

	item := newItem("alice", 30)
	require.NoError(t, store.Create(ctx, item))
	require.NotZero(t, item.ID)
	assert.True(t, item.Live(), "fresh rows start live")
	assert.False(t, item.CreatedAt.IsZero())

	got, err := store.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, int64(30), got.Age)
}

func TestStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))

	_, err := store.Get(ctx, 12345)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStoreSoftDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))

	item := newItem("alice", 30)
	require.NoError(t, store.Create(ctx, item))
	require.NoError(t, store.Remove(ctx, item.ID))

	// Default reads no longer see the row.
	_, err := store.Get(ctx, item.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	live, err := store.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, live)

	n, err := store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	// The row is still in storage and visible with WithDeleted.
	all, err := store.List(ctx, nil, WithDeleted())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
	assert.True(t, all[0].IsDeleted)

	// Exists checks uniqueness across soft-deleted rows too.
	exists, err := store.Exists(ctx, Filters{"email": item.Email})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStoreFilterByAndList(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))
	seedItems(t, store, 10)

	got, err := store.FilterBy(ctx, Filters{"name": "user-03"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Age)

	_, err = store.FilterBy(ctx, Filters{"name": "nobody"})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	older, err := store.List(ctx, Filters{"age__gte": 8})
	require.NoError(t, err)
	assert.Len(t, older, 3)

	some, err := store.List(ctx, Filters{"name__in": []string{"user-01", "user-02", "nobody"}})
	require.NoError(t, err)
	assert.Len(t, some, 2)

	like, err := store.List(ctx, Filters{"name__like": "user-0%"})
	require.NoError(t, err)
	assert.Len(t, like, 9)
}

func TestStoreListOrdered(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))
	seedItems(t, store, 5)

	desc, err := store.List(ctx, nil, WithOrder(ColumnID, true))
	require.NoError(t, err)
	require.Len(t, desc, 5)
	assert.Equal(t, "user-05", desc[0].Name)

	reversed, err := store.List(ctx, nil, WithReversed())
	require.NoError(t, err)
	require.Len(t, reversed, 5)
	assert.Equal(t, "user-05", reversed[0].Name)

	// Unknown order columns are skipped rather than failing the query.
	_, err = store.List(ctx, nil, WithOrder("missing", true))
	assert.NoError(t, err)
}

func TestStoreGetMulti(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))
	seedItems(t, store, 25)

	page, err := store.GetMulti(ctx, nil, types.NewDefaultPageRequest(2, 10))
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 3, page.Pages())
	require.Len(t, page.Items, 10)
	// Default ordering is id descending, so page 2 starts at id 15.
	assert.Equal(t, int64(15), page.Items[0].ID)

	sorted, err := store.GetMulti(ctx, nil,
		types.NewSortedPageRequest(1, 5, "age", types.DirectionAsc))
	require.NoError(t, err)
	require.Len(t, sorted.Items, 5)
	assert.Equal(t, int64(1), sorted.Items[0].Age)

	// A nil page request falls back to the first default-sized page.
	first, err := store.GetMulti(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Page)
	assert.Len(t, first.Items, types.DefaultPageSize)
}

func TestStoreGetMultiEmptyResult(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))

	page, err := store.GetMulti(ctx, Filters{"name": "nobody"}, types.NewDefaultPageRequest(1, 10))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
}

func TestStoreExistsExcluding(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))
	a := newItem("alice", 30)
	b := newItem("bob", 31)
	require.NoError(t, store.Create(ctx, a))
	require.NoError(t, store.Create(ctx, b))

	// The row itself does not conflict with its own values.
	exists, err := store.ExistsExcluding(ctx, Filters{"email": a.Email}, a.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.ExistsExcluding(ctx, Filters{"email": a.Email}, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))

	item := newItem("alice", 30)
	require.NoError(t, store.Create(ctx, item))

	item.Name = "alice-2"
	item.Age = 31
	require.NoError(t, store.Update(ctx, item))

	got, err := store.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice-2", got.Name)
	assert.Equal(t, int64(31), got.Age)
}

func TestStoreUpdateColumns(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))

	item := newItem("alice", 30)
	require.NoError(t, store.Create(ctx, item))

	item.Name = "renamed"
	item.Age = 99
	require.NoError(t, store.Update(ctx, item, "name"))

	got, err := store.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, int64(30), got.Age, "columns outside the list stay untouched")
}

func TestStorePatch(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))

	item := newItem("alice", 30)
	require.NoError(t, store.Create(ctx, item))

	err := store.Patch(ctx, item.ID, map[string]any{
		"age":     int64(42),
		"missing": "ignored",
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Age)
	assert.Equal(t, "alice", got.Name)

	// A patch with no known columns is a no-op.
	assert.NoError(t, store.Patch(ctx, item.ID, map[string]any{"missing": 1}))
}

func TestStoreRemoveMulti(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))
	seedItems(t, store, 10)

	require.NoError(t, store.RemoveMulti(ctx, Filters{"age__lte": 4}))

	// RemoveMulti deletes physically, not via the soft-delete flags.
	all, err := store.List(ctx, nil, WithDeleted())
	require.NoError(t, err)
	assert.Len(t, all, 6)

	require.NoError(t, store.RemoveMulti(ctx, nil))
	all, err = store.List(ctx, nil, WithDeleted())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStoreHardDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))

	item := newItem("alice", 30)
	require.NoError(t, store.Create(ctx, item))
	require.NoError(t, store.Remove(ctx, item.ID))
	require.NoError(t, store.HardDelete(ctx, item.ID))

	all, err := store.List(ctx, nil, WithDeleted())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStoreCreateMultiIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewStore[storeItem](newStoreDB(t))

	a := newItem("alice", 30)
	b := newItem("bob", 31)
	b.Email = a.Email // unique violation on the second row

	err := store.Create(ctx, a, b)
	require.Error(t, err)

	n, err := store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "no rows land when one of them fails")
}

func TestStoreCreateTx(t *testing.T) {
	ctx := context.Background()
	db := newStoreDB(t)
	store := NewStore[storeItem](db)

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return store.CreateTx(ctx, &tx, newItem("alice", 30), newItem("bob", 31))
	})
	require.NoError(t, err)

	n, err := store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
