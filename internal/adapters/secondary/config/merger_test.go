package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worship-tools/slidecast/internal/domain/entities"
)

func TestMerger_Merge(t *testing.T) {
	merger := NewMerger()

	t.Run("later configs win", func(t *testing.T) {
		base := GetDefaultConfig()
		local := &entities.Config{
			Server:  entities.ServerConfig{Port: 9001},
			Watcher: entities.WatcherConfig{IntervalMs: 250},
		}

		merged := merger.Merge(base, local)
		assert.Equal(t, 9001, merged.Server.Port)
		assert.Equal(t, 250, merged.Watcher.IntervalMs)
		// untouched values come from the base
		assert.Equal(t, base.Server.Host, merged.Server.Host)
		assert.Equal(t, base.Paths.StoreDir, merged.Paths.StoreDir)
	})

	t.Run("zero values do not override", func(t *testing.T) {
		base := GetDefaultConfig()
		merged := merger.Merge(base, &entities.Config{})

		assert.Equal(t, base.Server.Port, merged.Server.Port)
		assert.Equal(t, base.Paths.StoreDir, merged.Paths.StoreDir)
		assert.Equal(t, base.Logging.Level, merged.Logging.Level)
	})

	t.Run("nil configs skipped", func(t *testing.T) {
		base := GetDefaultConfig()
		merged := merger.Merge(base, nil, &entities.Config{Server: entities.ServerConfig{Host: "10.0.0.5"}})
		assert.Equal(t, "10.0.0.5", merged.Server.Host)
	})

	t.Run("no arguments yields defaults", func(t *testing.T) {
		merged := merger.Merge()
		assert.Equal(t, GetDefaultConfig().Server.Port, merged.Server.Port)
	})

	t.Run("merge does not mutate inputs", func(t *testing.T) {
		base := GetDefaultConfig()
		basePort := base.Server.Port

		_ = merger.Merge(base, &entities.Config{Server: entities.ServerConfig{Port: 1234}})
		assert.Equal(t, basePort, base.Server.Port)
	})

	t.Run("precedence chain global then local", func(t *testing.T) {
		defaults := GetDefaultConfig()
		global := &entities.Config{Server: entities.ServerConfig{Port: 9000, Host: "0.0.0.0"}}
		local := &entities.Config{Server: entities.ServerConfig{Port: 9001}}

		merged := merger.Merge(defaults, global, local)
		assert.Equal(t, 9001, merged.Server.Port)
		assert.Equal(t, "0.0.0.0", merged.Server.Host)
	})
}

func TestMerger_ApplyFlags(t *testing.T) {
	merger := NewMerger()

	t.Run("flags override everything", func(t *testing.T) {
		base := GetDefaultConfig()

		result := merger.ApplyFlags(base, map[string]interface{}{
			"port":          9002,
			"host":          "192.168.0.2",
			"store-dir":     "/mnt/worship/store",
			"poll-interval": 500,
			"verbose":       true,
		})

		assert.Equal(t, 9002, result.Server.Port)
		assert.Equal(t, "192.168.0.2", result.Server.Host)
		assert.Equal(t, "/mnt/worship/store", result.Paths.StoreDir)
		assert.Equal(t, 500, result.Watcher.IntervalMs)
		assert.True(t, result.Logging.Verbose)
	})

	t.Run("absent and zero flags leave config alone", func(t *testing.T) {
		base := GetDefaultConfig()

		result := merger.ApplyFlags(base, map[string]interface{}{
			"port": 0,
			"host": "",
		})

		assert.Equal(t, base.Server.Port, result.Server.Port)
		assert.Equal(t, base.Server.Host, result.Server.Host)
	})

	t.Run("result still validates", func(t *testing.T) {
		result := merger.ApplyFlags(GetDefaultConfig(), map[string]interface{}{"port": 9003})
		require.NoError(t, result.Validate())
	})
}
