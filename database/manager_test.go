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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type managerTestModel struct {
	bun.BaseModel `bun:"table:manager_test_models"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

func sqliteTestConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:   "sqlite",
		DBName: ":memory:",
		// A single connection keeps the in-memory database alive.
		MaxOpenConns:   1,
		MaxIdleConns:   1,
		ConnectTimeout: time.Second * 5,
	}
}

func TestManagerConnectSQLite(t *testing.T) {
	ctx := context.Background()
	m := NewManager(sqliteTestConfig())
	require.NoError(t, m.Connect(ctx))
	t.Cleanup(func() { _ = m.Disconnect() })

	require.NoError(t, m.Ping(ctx))
	require.NotNil(t, m.GetDB())
	require.NotNil(t, m.GetSQLDB())

	status := m.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Empty(t, status.LastError)

	stats := m.GetStats()
	assert.Equal(t, 1, stats.MaxOpenConns)
}

func TestManagerConnectIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(sqliteTestConfig())
	require.NoError(t, m.Connect(ctx))
	t.Cleanup(func() { _ = m.Disconnect() })

	db := m.GetDB()
	require.NoError(t, m.Connect(ctx))
	assert.Same(t, db, m.GetDB())
}

func TestManagerUnsupportedType(t *testing.T) {
	m := NewManager(&ConnectionConfig{Type: "oracle"})
	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestManagerDisconnectedState(t *testing.T) {
	ctx := context.Background()
	m := NewManager(sqliteTestConfig())

	assert.Error(t, m.Ping(ctx))
	assert.Nil(t, m.GetDB())

	status := m.HealthCheck(ctx)
	assert.False(t, status.Healthy)
	assert.NotEmpty(t, status.LastError)
}

func TestManagerCreateTables(t *testing.T) {
	ctx := context.Background()
	RegisterModel((*managerTestModel)(nil))

	m := NewManager(sqliteTestConfig())
	require.NoError(t, m.Connect(ctx))
	t.Cleanup(func() { _ = m.Disconnect() })

	require.NoError(t, m.CreateTables(ctx))
	// Creating twice must not fail; tables are created IF NOT EXISTS.
	require.NoError(t, m.CreateTables(ctx))

	db := m.GetDB()
	_, err := db.NewInsert().Model(&managerTestModel{Name: "a"}).Exec(ctx)
	require.NoError(t, err)

	n, err := db.NewSelect().Model((*managerTestModel)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegisterModelPriorityOrder(t *testing.T) {
	type first struct {
		bun.BaseModel `bun:"table:registry_first"`
		ID            int64 `bun:"id,pk,autoincrement"`
	}
	type second struct {
		bun.BaseModel `bun:"table:registry_second"`
		ID            int64 `bun:"id,pk,autoincrement"`
	}

	RegisterModelWithPriority((*second)(nil), 10)
	RegisterModelWithPriority((*first)(nil), -10)

	var firstIdx, secondIdx int
	for i, m := range RegisteredModelInstances() {
		switch m.(type) {
		case *first:
			firstIdx = i
		case *second:
			secondIdx = i
		}
	}
	assert.Less(t, firstIdx, secondIdx, "lower priorities are created first")
}
