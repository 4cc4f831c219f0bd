package ports

import (
	"errors"

	"github.com/worship-tools/slidecast/internal/domain/entities"
)

// ErrNoBackup is returned by Restore when no backup file exists.
var ErrNoBackup = errors.New("no slide backup available")

// SlideRepository persists the slide list and its pre-emergency backup.
// Writes are whole-file and atomic; there is no application-level locking,
// concurrent external writers are expected and detected by the watchers.
type SlideRepository interface {
	// Load reads and parses the slide store.
	Load() (entities.SlideList, error)
	// Save replaces the slide store wholesale.
	Save(list entities.SlideList) error
	// Clear writes an empty list to the slide store.
	Clear() error
	// BackupIfClean writes the backup only when no backup exists and the
	// live list contains no interrupt-style slide. Reports whether a
	// backup was written; repeated calls are no-ops.
	BackupIfClean() (bool, error)
	// Restore loads the backup list. Returns ErrNoBackup when absent.
	Restore() (entities.SlideList, error)
	// HasBackup reports whether a backup file currently exists.
	HasBackup() bool
	// DeleteBackup removes the backup file if present.
	DeleteBackup() error
}

// VerseBuffer is the plain-text emergency verse file. Emptiness of the
// buffer is the sole signal that emergency mode should end.
type VerseBuffer interface {
	// Read returns the trimmed buffer content; a missing file reads empty.
	Read() (string, error)
	// Clear empties the buffer.
	Clear() error
}
