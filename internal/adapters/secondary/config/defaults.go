package config

import (
	"os"
	"strconv"

	"github.com/worship-tools/slidecast/internal/domain/entities"
)

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault("SLIDECAST_HOST", "127.0.0.1"),
			Port:            getEnvIntOrDefault("SLIDECAST_PORT", 8765),
			ShutdownTimeout: getEnvIntOrDefault("SLIDECAST_SHUTDOWN_TIMEOUT", 5),
		},
		Watcher: entities.WatcherConfig{
			IntervalMs: getEnvIntOrDefault("SLIDECAST_POLL_INTERVAL_MS", 1000),
			JitterMs:   getEnvIntOrDefault("SLIDECAST_POLL_JITTER_MS", 100),
			DebounceMs: getEnvIntOrDefault("SLIDECAST_DEBOUNCE_MS", 0),
		},
		Paths: entities.PathsConfig{
			StoreDir:   getEnvOrDefault("SLIDECAST_STORE_DIR", "store"),
			SlideFile:  "slide_output.json",
			BackupFile: "slide_output_backup.json",
			VerseFile:  "verse_output.txt",
		},
		Logging: entities.LoggingConfig{
			Level:   getEnvOrDefault("SLIDECAST_LOG_LEVEL", "info"),
			Verbose: getEnvBoolOrDefault("SLIDECAST_LOG_VERBOSE", false),
		},
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
