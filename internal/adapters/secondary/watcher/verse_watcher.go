package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/worship-tools/slidecast/internal/domain/ports"
)

// VerseBufferWatcher polls the emergency verse buffer's trimmed content.
// It emits VerseChanged whenever non-empty content differs from the last
// observation, and InterruptCleared exactly once per non-empty-to-empty
// transition. The transition-only emission matters: a level-triggered
// check would re-fire every poll while the buffer stays empty.
type VerseBufferWatcher struct {
	interval time.Duration
	jitter   time.Duration
	debounce time.Duration
	events   chan ports.VerseEvent
	logger   *slog.Logger
	mu       sync.Mutex
	wg       sync.WaitGroup
	stopped  bool
	stopCh   chan struct{}
}

// NewVerseBufferWatcher creates a polling verse buffer watcher. A non-zero
// debounce holds each detected change for that long and re-reads, so a
// burst of writes collapses into one event carrying the final content.
func NewVerseBufferWatcher(interval, jitter, debounce time.Duration, logger *slog.Logger) *VerseBufferWatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &VerseBufferWatcher{
		interval: interval,
		jitter:   jitter,
		debounce: debounce,
		events:   make(chan ports.VerseEvent, 10),
		logger:   logger.With("component", "verse_watcher"),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts polling the verse buffer at path
func (w *VerseBufferWatcher) Watch(ctx context.Context, path string) (<-chan ports.VerseEvent, error) {
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
func (w *VerseBufferWatcher) Stop() error {
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

func (w *VerseBufferWatcher) pollLoop(ctx context.Context, path string) {
	var last *string

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-time.After(w.pollDelay()):
		}

		content, ok := w.readBuffer(path)
		if !ok {
			continue
		}

		if w.debounce > 0 && (last == nil || *last != content) {
			select {
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			case <-time.After(w.debounce):
			}
			// Settle on the newest write of the burst.
			if again, ok := w.readBuffer(path); ok {
				content = again
			}
		}

		event, emit := nextVerseEvent(last, content)
		observed := content
		last = &observed

		if !emit {
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

func (w *VerseBufferWatcher) pollDelay() time.Duration {
	if w.jitter <= 0 {
		return w.interval
	}
	return w.interval + time.Duration(rand.Int63n(int64(w.jitter)))
}

func (w *VerseBufferWatcher) readBuffer(path string) (string, bool) {
	data, err := os.ReadFile(path) // #nosec G304 - path resolved in Watch
	if err != nil {
		if os.IsNotExist(err) {
			// Not created yet; treat as unobserved rather than empty so
			// the first real write is not mistaken for a clear.
			return "", false
		}
		w.logger.Warn("verse buffer unreadable", slog.String("path", path), slog.String("error", err.Error()))
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// nextVerseEvent decides which event, if any, the observation produces.
// Extracted so the transition logic is testable without a filesystem.
func nextVerseEvent(last *string, content string) (ports.VerseEvent, bool) {
	switch {
	case content == "" && last != nil && *last != "":
		return ports.VerseEvent{
			Type:      ports.InterruptCleared,
			Timestamp: time.Now(),
		}, true
	case content != "" && (last == nil || *last != content):
		return ports.VerseEvent{
			Type:      ports.VerseChanged,
			Content:   content,
			Timestamp: time.Now(),
		}, true
	default:
		return ports.VerseEvent{}, false
	}
}
