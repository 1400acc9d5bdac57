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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	raw := `
connection:
  type: postgres
  host: db.internal
  port: 5432
  username: app
  password: secret
  dbname: app
  max_open_conns: 20
startup:
  create_tables: true
`
	path := filepath.Join(t.TempDir(), "database.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Connection.Type)
	assert.Equal(t, "db.internal", cfg.Connection.Host)
	assert.Equal(t, 5432, cfg.Connection.Port)
	assert.Equal(t, 20, cfg.Connection.MaxOpenConns)
	assert.True(t, cfg.Startup.CreateTables)

	// Omitted values keep their defaults.
	assert.Equal(t, 10, cfg.Connection.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.Connection.ConnMaxLifetime)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connection: ["), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestFactoryUnsupportedType(t *testing.T) {
	f := NewFactory()
	_, err := f.CreateFromConfig(&ConnectionConfig{Type: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")

	_, err = f.CreateFromConfig(nil)
	assert.Error(t, err)
}

func TestFactoryEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "env-host")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_PASSWORD", "env-secret")
	t.Setenv("DB_MAX_OPEN_CONNS", "33")
	t.Setenv("DB_ENABLE_RECONNECT", "false")

	cfg := DefaultConnectionConfig()
	cfg.Type = "sqlite"
	cfg.Host = "file-host"

	f := NewFactory()
	_, err := f.CreateFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "env-secret", cfg.Password)
	assert.Equal(t, 33, cfg.MaxOpenConns)
	assert.False(t, cfg.EnableReconnect)
}
