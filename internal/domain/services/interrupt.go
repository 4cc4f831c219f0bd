package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/worship-tools/slidecast/internal/domain/ports"
)

// InterruptService is the standalone interruptor pipeline: it watches the
// emergency verse buffer and, whenever new content appears, composes
// emergency slides and writes them to the slide store (after backing the
// normal list up). The controller process observes the store write through
// its own watcher; the two processes only share files, never memory.
type InterruptService struct {
	watcher  ports.VerseWatcher
	composer ports.SlideComposer
	repo     ports.SlideRepository
	logger   *slog.Logger

	mu          sync.Mutex
	watching    bool
	watchCancel context.CancelFunc
}

// NewInterruptService creates the verse-buffer-to-slide-store pipeline
func NewInterruptService(watcher ports.VerseWatcher, composer ports.SlideComposer, repo ports.SlideRepository, logger *slog.Logger) *InterruptService {
	if logger == nil {
		logger = slog.Default()
	}

	return &InterruptService{
		watcher:  watcher,
		composer: composer,
		repo:     repo,
		logger:   logger.With("service", "interruptor"),
	}
}

// Start begins watching the verse buffer at path
func (s *InterruptService) Start(ctx context.Context, path string) error {
	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return errors.New("already watching")
	}
	s.watching = true
	s.mu.Unlock()

	watchCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.watchCancel = cancel
	s.mu.Unlock()

	events, err := s.watcher.Watch(watchCtx, path)
	if err != nil {
		s.mu.Lock()
		s.watching = false
		s.watchCancel = nil
		s.mu.Unlock()
		cancel()
		return fmt.Errorf("starting watcher: %w", err)
	}

	go s.handleEvents(watchCtx, events)

	s.logger.Info("watching verse buffer", slog.String("path", path))
	return nil
}

// Stop stops the pipeline
func (s *InterruptService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.watching {
		return nil
	}

	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}

	s.watching = false
	return nil
}

// IsWatching reports whether the pipeline is currently running
func (s *InterruptService) IsWatching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watching
}

func (s *InterruptService) handleEvents(ctx context.Context, events <-chan ports.VerseEvent) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			if event.Type != ports.VerseChanged {
				// Buffer cleared; the controller handles restoration.
				continue
			}

			s.handleContent(event.Content)
		}
	}
}

func (s *InterruptService) handleContent(content string) {
	slides := s.composer.Compose(content)
	if len(slides) == 0 {
		s.logger.Warn("no slides generated from verse buffer")
		return
	}

	if _, err := s.repo.BackupIfClean(); err != nil {
		s.logger.Warn("backup failed", slog.String("error", err.Error()))
	}

	if err := s.repo.Save(slides); err != nil {
		s.logger.Error("writing emergency slides failed", slog.String("error", err.Error()))
		return
	}

	s.logger.Info("emergency slides written", slog.Int("slides", len(slides)))
}
