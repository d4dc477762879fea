package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "data.db", c.DatabasePath)
	assert.Equal(t, "flags.db", c.FlagsPath)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.Equal(t, 10*time.Minute, c.ListCacheTTL)
	assert.Equal(t, "127.0.0.1:11898:false", c.DefaultNode)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_NoSourcesKeepsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load(nil)
	require.NotNil(t, cfg)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseEnv_VariablesAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("WALLETKEEPER_COIN_NAME=fromfile\nWALLETKEEPER_LOG_LEVEL=warn\n"), 0o600))

	t.Setenv("WALLETKEEPER_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("WALLETKEEPER_REQUEST_TIMEOUT", "250ms")
	// already-set variables win over the file
	t.Setenv("WALLETKEEPER_LOG_LEVEL", "debug")
	// godotenv sets this one; make sure it is removed afterwards
	t.Setenv("WALLETKEEPER_COIN_NAME", "")
	require.NoError(t, os.Unsetenv("WALLETKEEPER_COIN_NAME"))

	cfg := defaults()
	parseEnv(cfg, envFile)

	assert.Equal(t, "/tmp/env.db", cfg.DatabasePath)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "fromfile", cfg.CoinName)
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	t.Setenv("WALLETKEEPER_LIST_CACHE_TTL", "forever")
	cfg := defaults()
	require.Panics(t, func() { parseEnv(cfg, filepath.Join(t.TempDir(), "missing.env")) })
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"database_path":   "json.db",
		"request_timeout": "10s",
		"list_cache_ttl":  int64(time.Minute),
	})

	t.Run("overrides only named fields", func(t *testing.T) {
		cfg := defaults()
		parseJson(cfg, []string{"-config", path})

		want := defaults()
		want.DatabasePath = "json.db"
		want.RequestTimeout = 10 * time.Second
		want.ListCacheTTL = time.Minute
		assert.Empty(t, cmp.Diff(want, cfg))
	})

	t.Run("no flag means no changes", func(t *testing.T) {
		cfg := defaults()
		parseJson(cfg, []string{"-d", "x.db"})
		assert.Empty(t, cmp.Diff(defaults(), cfg))
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))
		require.Panics(t, func() { parseJson(defaults(), []string{"-c", bad}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(defaults(), []string{"-c", "/does/not/exist.json"}) })
	})
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectPanic bool
		mutate      func(c *Config)
	}{
		{
			name: "all flags",
			args: []string{"-d", "a.db", "-f", "b.db", "-n", "http://n", "-g", "http://g", "-t", "7", "messages"},
			mutate: func(c *Config) {
				c.DatabasePath = "a.db"
				c.FlagsPath = "b.db"
				c.NodeListURL = "http://n"
				c.GroupsListURL = "http://g"
				c.RequestTimeout = 7 * time.Second
			},
		},
		{
			name:   "timeout untouched when not given",
			args:   []string{"-d", "a.db"},
			mutate: func(c *Config) { c.DatabasePath = "a.db" },
		},
		{
			name:        "bad timeout",
			args:        []string{"-t", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			cfg.RequestTimeout = 1500 * time.Millisecond
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}

			want := defaults()
			want.RequestTimeout = 1500 * time.Millisecond
			tt.mutate(want)

			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WALLETKEEPER_DATABASE_PATH", "env.db")
	t.Setenv("WALLETKEEPER_FLAGS_PATH", "env-flags.db")
	t.Setenv("WALLETKEEPER_COIN_NAME", "envcoin")

	path := writeTempJSON(t, map[string]any{
		"database_path": "json.db",
		"flags_path":    "json-flags.db",
	})

	cfg := Load([]string{"-c", path, "-d", "flag.db", "boards", "--board", "general"})

	want := defaults()
	want.DatabasePath = "flag.db"
	want.FlagsPath = "json-flags.db"
	want.CoinName = "envcoin"
	assert.Empty(t, cmp.Diff(want, cfg))
}
