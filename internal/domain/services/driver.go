package services

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/worship-tools/slidecast/internal/domain/entities"
	"github.com/worship-tools/slidecast/internal/domain/ports"
)

// Driver owns the active index over the current slide list and pushes the
// addressed slide to the broadcast server. All mode complexity lives in
// the Coordinator; the driver only knows "which slide of this list".
type Driver struct {
	mu        sync.RWMutex
	slides    entities.SlideList
	index     int
	publisher ports.SlidePublisher
	logger    *slog.Logger
}

// NewDriver creates a presentation driver
func NewDriver(publisher ports.SlidePublisher, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}

	return &Driver{
		publisher: publisher,
		logger:    logger.With("service", "driver"),
	}
}

// ReplaceList swaps the slide list wholesale and clamps the index into
// range. Used by the change detector and the coordinator; the driver
// never edits a list in place.
func (d *Driver) ReplaceList(list entities.SlideList, index int) {
	d.mu.Lock()
	d.slides = list
	d.index = list.Clamp(index)
	d.mu.Unlock()
}

// Advance moves to the next slide; a no-op at the end of the list.
// Reports whether the index moved.
func (d *Driver) Advance() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.index >= len(d.slides)-1 {
		return false
	}
	d.index++
	return true
}

// Retreat moves to the previous slide; a no-op at the start of the list.
// Reports whether the index moved.
func (d *Driver) Retreat() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.index <= 0 {
		return false
	}
	d.index--
	return true
}

// Jump sets the index only if the target is in range; out-of-range
// targets are ignored. Reports whether the index was set.
func (d *Driver) Jump(i int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i < 0 || i >= len(d.slides) {
		return false
	}
	d.index = i
	return true
}

// Index returns the current active index
func (d *Driver) Index() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.index
}

// Len returns the current list length
func (d *Driver) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.slides)
}

// Current returns the slide at the active index
func (d *Driver) Current() (entities.Slide, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.slides) == 0 {
		return entities.Slide{}, false
	}
	return d.slides[d.index], true
}

// Slides returns a copy of the current list
func (d *Driver) Slides() entities.SlideList {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(entities.SlideList, len(d.slides))
	copy(out, d.slides)
	return out
}

// PublishCurrent sends the active slide to the broadcast server. A missing
// connection is a reported no-op; the live overlay keeps its last payload
// and the authoring side must never be halted by it.
func (d *Driver) PublishCurrent() error {
	slide, ok := d.Current()
	if !ok {
		return nil
	}

	// Only members of the closed style set go on the wire; the overlay
	// has no template for anything else.
	if _, err := slide.Style.TemplateClass(); err != nil {
		d.logger.Warn("refusing to publish slide",
			slog.String("caption", slide.Caption),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("publishing slide: %w", err)
	}

	if !d.publisher.Connected() {
		d.logger.Warn("websocket not connected, slide not published",
			slog.String("caption", slide.Caption),
		)
		return nil
	}

	if err := d.publisher.Send(slide); err != nil {
		d.logger.Warn("publish failed", slog.String("error", err.Error()))
		return fmt.Errorf("publishing slide: %w", err)
	}

	d.logger.Debug("slide published",
		slog.Int("index", d.Index()),
		slog.String("style", string(slide.Style)),
	)
	return nil
}
