package ports

import (
	"context"

	"github.com/worship-tools/slidecast/internal/domain/entities"
)

// SlidePublisher is the driver's outbound connection to the broadcast
// server. No reconnection logic: a failed send drops the connection and
// the caller decides when to dial again.
type SlidePublisher interface {
	// Connect dials the broadcast server.
	Connect(ctx context.Context) error
	// Send serializes the slide and sends it as a text frame.
	Send(slide entities.Slide) error
	// Connected reports whether a connection is currently held.
	Connected() bool
	// Close shuts the connection down.
	Close() error
}

// SlideComposer turns raw verse buffer content into emergency slides.
type SlideComposer interface {
	// Compose parses buffer content into a slide list; empty content or
	// content that produces no slides yields an empty list.
	Compose(content string) entities.SlideList
}
