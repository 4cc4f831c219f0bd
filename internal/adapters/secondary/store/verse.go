package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"
)

// VerseFile implements the VerseBuffer port over the plain-text emergency
// verse file.
type VerseFile struct {
	path string
}

// NewVerseFile creates a verse buffer backed by the file at path
func NewVerseFile(path string) *VerseFile {
	return &VerseFile{path: path}
}

// Read returns the trimmed buffer content. A missing file reads as empty;
// the authoring flow may not have created it yet.
func (v *VerseFile) Read() (string, error) {
	data, err := os.ReadFile(v.path) // #nosec G304 - path comes from validated config
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading verse buffer: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Write replaces the buffer content atomically
func (v *VerseFile) Write(content string) error {
	if err := renameio.WriteFile(v.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing verse buffer: %w", err)
	}
	return nil
}

// Clear empties the buffer. Writing the empty string is the signal that
// ends emergency mode.
func (v *VerseFile) Clear() error {
	if err := renameio.WriteFile(v.path, []byte{}, 0o644); err != nil {
		return fmt.Errorf("clearing verse buffer: %w", err)
	}
	return nil
}

// Path returns the buffer's file path
func (v *VerseFile) Path() string {
	return v.path
}
