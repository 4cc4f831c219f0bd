package entities

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Watcher WatcherConfig `toml:"watcher"`
	Paths   PathsConfig   `toml:"paths"`
	Logging LoggingConfig `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Watcher.Validate(); err != nil {
		return fmt.Errorf("watcher config: %w", err)
	}

	if err := c.Paths.Validate(); err != nil {
		return fmt.Errorf("paths config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains broadcast server configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if _, err := net.LookupHost(s.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{
			"http://localhost:8765",
			"http://127.0.0.1:8765",
		}
	}
	return s.CORSOrigins
}

// URL returns the ws:// endpoint overlay clients and the controller dial.
func (s ServerConfig) URL() string {
	host := s.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("ws://%s:%d/ws", host, s.Port)
}

// WatcherConfig contains file watching configuration.
// Polling interval plus jitter is the dominant source of end-to-end latency
// between an external file write and the overlay update.
type WatcherConfig struct {
	IntervalMs int `toml:"interval_ms"`
	JitterMs   int `toml:"jitter_ms"`
	DebounceMs int `toml:"debounce_ms"`
}

// Validate validates watcher configuration
func (w WatcherConfig) Validate() error {
	if w.IntervalMs < 0 {
		return errors.New("interval must be non-negative")
	}
	if w.JitterMs < 0 {
		return errors.New("jitter must be non-negative")
	}
	if w.DebounceMs < 0 {
		return errors.New("debounce must be non-negative")
	}
	return nil
}

// GetInterval returns the polling interval as a duration
func (w WatcherConfig) GetInterval() time.Duration {
	if w.IntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(w.IntervalMs) * time.Millisecond
}

// GetJitter returns the per-poll random jitter as a duration
func (w WatcherConfig) GetJitter() time.Duration {
	if w.JitterMs <= 0 {
		return 0
	}
	return time.Duration(w.JitterMs) * time.Millisecond
}

// GetDebounce returns the change-event debounce as a duration
func (w WatcherConfig) GetDebounce() time.Duration {
	if w.DebounceMs <= 0 {
		return 0
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// PathsConfig locates the persisted artifacts the pipeline shares with the
// editor/export collaborators.
type PathsConfig struct {
	StoreDir   string `toml:"store_dir"`
	SlideFile  string `toml:"slide_file"`
	BackupFile string `toml:"backup_file"`
	VerseFile  string `toml:"verse_file"`
}

// Validate validates path configuration
func (p PathsConfig) Validate() error {
	if p.StoreDir == "" {
		return errors.New("store dir is required")
	}
	return nil
}

// SlidePath returns the absolute-ish path of the slide store file.
func (p PathsConfig) SlidePath() string {
	name := p.SlideFile
	if name == "" {
		name = "slide_output.json"
	}
	return filepath.Join(p.StoreDir, name)
}

// BackupPath returns the path of the slide backup file.
func (p PathsConfig) BackupPath() string {
	name := p.BackupFile
	if name == "" {
		name = "slide_output_backup.json"
	}
	return filepath.Join(p.StoreDir, name)
}

// VersePath returns the path of the emergency verse buffer.
func (p PathsConfig) VersePath() string {
	if p.VerseFile == "" {
		return filepath.Join(filepath.Dir(p.StoreDir), "verse_output.txt")
	}
	if filepath.IsAbs(p.VerseFile) {
		return p.VerseFile
	}
	return filepath.Join(filepath.Dir(p.StoreDir), p.VerseFile)
}

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `toml:"level"`
	Verbose bool   `toml:"verbose"`
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch l.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s", l.Level)
	}
}

// GetLevel returns the configured level, defaulting to info
func (l LoggingConfig) GetLevel() LogLevel {
	switch l.Level {
	case "debug":
		return LogLevelDebug
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}
