package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"http_addr":        "127.0.0.1:8080",
		"storage":          "postgres",
		"database_dsn":     "postgres://u:p@db:5432/subs",
		"sqlite_path":      "local.db",
		"default_tokens":   "VIP-ABC,DEMO-123",
		"token_ttl_days":   "14",
		"admin_secret":     "admin-secret",
		"check_rate_limit": 25,
		"log_level":        "warn",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
		assert.Equal(t, "postgres", cfg.Storage)
		assert.Equal(t, "postgres://u:p@db:5432/subs", cfg.DatabaseDSN)
		assert.Equal(t, "local.db", cfg.SQLitePath)
		assert.Equal(t, "VIP-ABC,DEMO-123", cfg.DefaultTokens)
		assert.Equal(t, "14", cfg.TokenTTLDays)
		assert.Equal(t, "admin-secret", cfg.AdminSecret)
		assert.Equal(t, 25, cfg.CheckRateLimit)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("short flag", func(t *testing.T) {
		os.Args = []string{"testbin", "-c=" + pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"log_level": "debug"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, ":5000", cfg.HTTPAddr)
		assert.Equal(t, "subscriptions.db", cfg.SQLitePath)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{HTTPAddr: "defaults:1234", SQLitePath: "keep.db"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
		assert.Equal(t, "keep.db", cfg.SQLitePath)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "absent.json")}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
