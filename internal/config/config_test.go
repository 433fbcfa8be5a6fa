package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.Console.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.Console.Timeout)
	assert.Equal(t, "file", cfg.Console.SessionStore)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Server.Storage)
	assert.Equal(t, time.Hour, cfg.Server.TokenCleanupInterval)
	assert.Equal(t, 24, cfg.JWT.ExpiryHours)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
console:
  api_base_url: http://api.internal:8080
  session_store: memory
server:
  port: 9000
  storage: postgres
database:
  name: clinic
`), 0o600))

	t.Setenv("HOSPITALIS_SERVER_PORT", "9100")
	t.Setenv("HOSPITALIS_CONSOLE_API_BASE_URL", "http://override:3000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:3000", cfg.Console.APIBaseURL)
	assert.Equal(t, "memory", cfg.Console.SessionStore)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Server.Storage)
	assert.Equal(t, "clinic", cfg.Database.Name)
	assert.Contains(t, cfg.Database.DSN(), "dbname=clinic")
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
