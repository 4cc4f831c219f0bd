package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOMLLoader_LoadLocal(t *testing.T) {
	loader := NewTOMLLoader()

	t.Run("missing local config is optional", func(t *testing.T) {
		cfg, err := loader.LoadLocal(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("loads and validates local config", func(t *testing.T) {
		dir := t.TempDir()
		content := `
[server]
host = "0.0.0.0"
port = 9001

[watcher]
interval_ms = 250

[paths]
store_dir = "slides/store"
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "slidecast.toml"), []byte(content), 0o644))

		cfg, err := loader.LoadLocal(dir)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 9001, cfg.Server.Port)
		assert.Equal(t, 250, cfg.Watcher.IntervalMs)
		assert.Equal(t, "slides/store", cfg.Paths.StoreDir)
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "slidecast.toml"), []byte("[server\nport="), 0o644))

		_, err := loader.LoadLocal(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing TOML")
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "slidecast.toml"), []byte("[server]\nport = -2\n"), 0o644))

		_, err := loader.LoadLocal(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})
}

func TestTOMLLoader_CreateDefaults(t *testing.T) {
	loader := NewTOMLLoader()
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, loader.CreateDefaults(path))

	cfg, err := loader.loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8765, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Watcher.IntervalMs)
	assert.Equal(t, "store", cfg.Paths.StoreDir)
	assert.Equal(t, "verse_output.txt", cfg.Paths.VerseFile)
}

func TestGetDefaultConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SLIDECAST_PORT", "9100")
	t.Setenv("SLIDECAST_STORE_DIR", "/var/lib/slidecast")
	t.Setenv("SLIDECAST_LOG_LEVEL", "debug")

	cfg := GetDefaultConfig()
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/var/lib/slidecast", cfg.Paths.StoreDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestGetDefaultConfig_BadEnvIgnored(t *testing.T) {
	t.Setenv("SLIDECAST_PORT", "not-a-number")

	cfg := GetDefaultConfig()
	assert.Equal(t, 8765, cfg.Server.Port)
}
