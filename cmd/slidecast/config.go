package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/worship-tools/slidecast/internal/adapters/secondary/config"
	"github.com/worship-tools/slidecast/internal/domain/entities"
)

// loadAndMergeConfig loads configuration with the usual precedence:
// CLI flags > local config > global config > defaults.
func loadAndMergeConfig(cmd *cobra.Command) (*entities.Config, error) {
	loader := config.NewTOMLLoader()
	merger := config.NewMerger()

	globalConfig, err := loader.LoadGlobal()
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	var localConfig *entities.Config
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		localConfig, err = loader.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", configPath, err)
		}
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		localConfig, err = loader.LoadLocal(cwd)
		if err != nil {
			return nil, fmt.Errorf("loading local config: %w", err)
		}
	}

	merged := merger.Merge(config.GetDefaultConfig(), globalConfig, localConfig)

	flags := map[string]interface{}{}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		flags["port"] = port
	}
	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		flags["host"] = host
	}
	if cmd.Flags().Changed("store-dir") {
		storeDir, _ := cmd.Flags().GetString("store-dir")
		flags["store-dir"] = storeDir
	}
	if cmd.Flags().Changed("poll-interval") {
		interval, _ := cmd.Flags().GetInt("poll-interval")
		flags["poll-interval"] = interval
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		flags["verbose"] = true
	}

	final := merger.ApplyFlags(merged, flags)

	if err := final.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return final, nil
}

// newSlogLogger builds the process-wide structured logger from config
func newSlogLogger(cfg *entities.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.GetLevel() {
	case entities.LogLevelDebug:
		level = slog.LevelDebug
	case entities.LogLevelWarn:
		level = slog.LevelWarn
	case entities.LogLevelError:
		level = slog.LevelError
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ensureStoreDir creates the store directory when missing
func ensureStoreDir(cfg *entities.Config) error {
	if err := os.MkdirAll(cfg.Paths.StoreDir, 0o750); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}
	return nil
}
