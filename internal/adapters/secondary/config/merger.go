package config

import (
	"github.com/worship-tools/slidecast/internal/domain/entities"
)

// Merger combines configurations from multiple sources
type Merger struct{}

// NewMerger creates a new configuration merger
func NewMerger() *Merger {
	return &Merger{}
}

// Merge merges configurations with later configs taking precedence.
// Zero values in later configs do not override earlier ones.
func (m *Merger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])

	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *Merger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if storeDir, ok := flags["store-dir"].(string); ok && storeDir != "" {
		result.Paths.StoreDir = storeDir
	}

	if interval, ok := flags["poll-interval"].(int); ok && interval > 0 {
		result.Watcher.IntervalMs = interval
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
	}

	return result
}

func (m *Merger) mergeInto(dst, src *entities.Config) {
	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.ShutdownTimeout != 0 {
		dst.Server.ShutdownTimeout = src.Server.ShutdownTimeout
	}
	if len(src.Server.CORSOrigins) > 0 {
		dst.Server.CORSOrigins = append([]string(nil), src.Server.CORSOrigins...)
	}

	if src.Watcher.IntervalMs != 0 {
		dst.Watcher.IntervalMs = src.Watcher.IntervalMs
	}
	if src.Watcher.JitterMs != 0 {
		dst.Watcher.JitterMs = src.Watcher.JitterMs
	}
	if src.Watcher.DebounceMs != 0 {
		dst.Watcher.DebounceMs = src.Watcher.DebounceMs
	}

	if src.Paths.StoreDir != "" {
		dst.Paths.StoreDir = src.Paths.StoreDir
	}
	if src.Paths.SlideFile != "" {
		dst.Paths.SlideFile = src.Paths.SlideFile
	}
	if src.Paths.BackupFile != "" {
		dst.Paths.BackupFile = src.Paths.BackupFile
	}
	if src.Paths.VerseFile != "" {
		dst.Paths.VerseFile = src.Paths.VerseFile
	}

	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Verbose {
		dst.Logging.Verbose = true
	}
}

func deepCopy(c *entities.Config) *entities.Config {
	if c == nil {
		return GetDefaultConfig()
	}

	copied := *c
	copied.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	return &copied
}
