package ports

import (
	"context"
	"time"

	"github.com/worship-tools/slidecast/internal/domain/entities"
)

// SlideEventType classifies slide store change events.
type SlideEventType int

const (
	// SlideListChanged indicates the store was rewritten with a non-empty list.
	SlideListChanged SlideEventType = iota
	// SlideListCleared indicates the store was rewritten with an empty list.
	SlideListCleared
)

// String returns the string representation of SlideEventType
func (t SlideEventType) String() string {
	switch t {
	case SlideListChanged:
		return "changed"
	case SlideListCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// SlideListEvent is emitted when the slide store file changes on disk.
// For Changed events, Slides carries the new list and Index the reset
// cursor position.
type SlideListEvent struct {
	Type      SlideEventType
	Slides    entities.SlideList
	Index     int
	Timestamp time.Time
}

// VerseEventType classifies emergency verse buffer events.
type VerseEventType int

const (
	// VerseChanged indicates the buffer holds new non-empty content.
	VerseChanged VerseEventType = iota
	// InterruptCleared indicates the buffer transitioned non-empty to empty.
	// Emitted exactly once per transition.
	InterruptCleared
)

// String returns the string representation of VerseEventType
func (t VerseEventType) String() string {
	switch t {
	case VerseChanged:
		return "changed"
	case InterruptCleared:
		return "interrupt_cleared"
	default:
		return "unknown"
	}
}

// VerseEvent is emitted when the emergency verse buffer changes state.
type VerseEvent struct {
	Type      VerseEventType
	Content   string
	Timestamp time.Time
}

// SlideListWatcher watches the slide store file for changes
type SlideListWatcher interface {
	// Watch starts polling the slide store at path
	Watch(ctx context.Context, path string) (<-chan SlideListEvent, error)
	// Stop halts the poll loop; bounded by one polling interval of latency
	Stop() error
}

// VerseWatcher watches the emergency verse buffer
type VerseWatcher interface {
	// Watch starts polling the verse buffer at path
	Watch(ctx context.Context, path string) (<-chan VerseEvent, error)
	// Stop halts the poll loop; bounded by one polling interval of latency
	Stop() error
}
