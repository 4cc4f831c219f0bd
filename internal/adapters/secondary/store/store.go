// Package store persists the slide list, its pre-emergency backup, and the
// emergency verse buffer as whole files. All writes go through renameio so
// readers observe either the old or the new content, never a partial file.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/renameio/v2"

	"github.com/worship-tools/slidecast/internal/domain/entities"
	"github.com/worship-tools/slidecast/internal/domain/ports"
)

// FileStore implements the SlideRepository port over two JSON files in the
// store directory.
type FileStore struct {
	slidePath  string
	backupPath string
	logger     *slog.Logger
}

// NewFileStore creates a file-backed slide repository
func NewFileStore(slidePath, backupPath string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileStore{
		slidePath:  slidePath,
		backupPath: backupPath,
		logger:     logger.With("component", "store"),
	}
}

// Load reads and parses the slide store file
func (s *FileStore) Load() (entities.SlideList, error) {
	return s.loadFile(s.slidePath)
}

// Save replaces the slide store wholesale with an atomic overwrite
func (s *FileStore) Save(list entities.SlideList) error {
	return s.writeFile(s.slidePath, list)
}

// Clear writes an empty list to the slide store
func (s *FileStore) Clear() error {
	return s.writeFile(s.slidePath, entities.SlideList{})
}

// BackupIfClean writes the backup file only when it does not already exist
// and the live list contains no interrupt-style slide. This keeps emergency
// content from clobbering a legitimate prior backup and makes repeated
// calls no-ops.
func (s *FileStore) BackupIfClean() (bool, error) {
	if s.HasBackup() {
		return false, nil
	}

	list, err := s.loadFile(s.slidePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("loading live list for backup: %w", err)
	}

	if list.ContainsInterrupt() {
		s.logger.Warn("skipping backup, live list holds interrupt slides")
		return false, nil
	}

	if err := s.writeFile(s.backupPath, list); err != nil {
		return false, fmt.Errorf("writing backup: %w", err)
	}

	s.logger.Info("slide backup written", slog.Int("slides", len(list)))
	return true, nil
}

// Restore loads the backup list; it replaces, never merges.
func (s *FileStore) Restore() (entities.SlideList, error) {
	list, err := s.loadFile(s.backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrNoBackup
		}
		return nil, fmt.Errorf("restoring backup: %w", err)
	}

	s.logger.Info("slide backup restored", slog.Int("slides", len(list)))
	return list, nil
}

// HasBackup reports whether the backup file exists
func (s *FileStore) HasBackup() bool {
	_, err := os.Stat(s.backupPath)
	return err == nil
}

// DeleteBackup removes the backup file if present
func (s *FileStore) DeleteBackup() error {
	if err := os.Remove(s.backupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting backup: %w", err)
	}
	return nil
}

func (s *FileStore) loadFile(path string) (entities.SlideList, error) {
	data, err := os.ReadFile(path) // #nosec G304 - paths come from validated config
	if err != nil {
		return nil, err
	}

	var list entities.SlideList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// An empty list is a legitimate cleared store; a list carrying an
	// unknown style is not, and must never reach the broadcast path.
	if len(list) > 0 {
		if err := list.Validate(); err != nil {
			return nil, fmt.Errorf("validating %s: %w", path, err)
		}
	}

	return list, nil
}

func (s *FileStore) writeFile(path string, list entities.SlideList) error {
	if list == nil {
		list = entities.SlideList{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding slides: %w", err)
	}
	data = append(data, '\n')

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
