// Package watcher implements the polling change detectors over the slide
// store and the emergency verse buffer. Polling is a deliberate portability
// choice over OS file-event APIs; interval and jitter are configurable and
// are the dominant source of end-to-end latency.
package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/worship-tools/slidecast/internal/domain/entities"
	"github.com/worship-tools/slidecast/internal/domain/ports"
)

// SlideListWatcher polls the slide store file and emits typed events when
// its modification time changes.
type SlideListWatcher struct {
	interval time.Duration
	jitter   time.Duration
	debounce time.Duration
	events   chan ports.SlideListEvent
	logger   *slog.Logger
	mu       sync.Mutex
	wg       sync.WaitGroup
	stopped  bool
	stopCh   chan struct{}
}

// NewSlideListWatcher creates a polling slide store watcher. A non-zero
// debounce holds each detected change for that long and re-reads, so a
// burst of writes collapses into one event carrying the final content.
func NewSlideListWatcher(interval, jitter, debounce time.Duration, logger *slog.Logger) *SlideListWatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlideListWatcher{
		interval: interval,
		jitter:   jitter,
		debounce: debounce,
		events:   make(chan ports.SlideListEvent, 10),
		logger:   logger.With("component", "slide_watcher"),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts polling the slide store at path
func (w *SlideListWatcher) Watch(ctx context.Context, path string) (<-chan ports.SlideListEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, absPath)
	}()

	return w.events, nil
}

// Stop halts the poll loop and waits for it to exit. Idempotent.
func (w *SlideListWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.stopped = true
	close(w.stopCh)
	w.wg.Wait()
	close(w.events)

	return nil
}

func (w *SlideListWatcher) pollLoop(ctx context.Context, path string) {
	var lastMtime time.Time
	seen := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-time.After(w.pollDelay()):
		}

		info, err := os.Stat(path)
		if err != nil {
			// Transient: the exporter may not have written the file yet,
			// or it is mid-replacement. Retry next poll.
			if !os.IsNotExist(err) {
				w.logger.Warn("stat failed", slog.String("path", path), slog.String("error", err.Error()))
			}
			continue
		}

		mtime := info.ModTime()
		if !seen {
			// Baseline observation, no event.
			lastMtime = mtime
			seen = true
			continue
		}

		if mtime.Equal(lastMtime) {
			continue
		}
		lastMtime = mtime

		if w.debounce > 0 {
			select {
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			case <-time.After(w.debounce):
			}
			// Settle on the newest write of the burst.
			if info, err := os.Stat(path); err == nil {
				lastMtime = info.ModTime()
			}
		}

		event, err := w.readEvent(path)
		if err != nil {
			w.logger.Warn("slide store unreadable, skipping poll",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}

		select {
		case w.events <- event:
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

// pollDelay returns the interval plus a random share of the jitter, so
// multiple watchers over the same directory do not stat in lockstep.
func (w *SlideListWatcher) pollDelay() time.Duration {
	if w.jitter <= 0 {
		return w.interval
	}
	return w.interval + time.Duration(rand.Int63n(int64(w.jitter)))
}

func (w *SlideListWatcher) readEvent(path string) (ports.SlideListEvent, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path resolved in Watch
	if err != nil {
		return ports.SlideListEvent{}, err
	}

	var list entities.SlideList
	if err := json.Unmarshal(data, &list); err != nil {
		return ports.SlideListEvent{}, fmt.Errorf("parsing slide list: %w", err)
	}

	if len(list) == 0 {
		return ports.SlideListEvent{
			Type:      ports.SlideListCleared,
			Timestamp: time.Now(),
		}, nil
	}

	if err := list.Validate(); err != nil {
		return ports.SlideListEvent{}, fmt.Errorf("validating slide list: %w", err)
	}

	return ports.SlideListEvent{
		Type:      ports.SlideListChanged,
		Slides:    list,
		Index:     0,
		Timestamp: time.Now(),
	}, nil
}
