package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/worship-tools/slidecast/internal/domain/entities"
	"github.com/worship-tools/slidecast/internal/domain/ports"
)

// Mode is the coordinator's presentation state.
type Mode int

const (
	// ModeNormal is the regular worship presentation.
	ModeNormal Mode = iota
	// ModeEmergency is the temporary takeover for urgent content.
	ModeEmergency
)

// String returns the string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Stats counts restoration triggers separately. The restore code path is
// shared, but an externally-truncated store and a deliberate emergency
// exit are different events and must stay distinguishable in telemetry.
type Stats struct {
	EmergenciesEntered int
	InterruptCleared   int
	StoreCleared       int
	UserCleared        int
	RestoreFallbacks   int
}

// Coordinator arbitrates between normal presentation and emergency
// override and owns backup/restore of the slide store. Watchers feed it
// typed events over channels; a single Run goroutine drains them, so
// background threads never mutate presentation state directly.
type Coordinator struct {
	mu          sync.Mutex
	mode        Mode
	backupIndex int
	stats       Stats

	driver *Driver
	repo   ports.SlideRepository
	verse  ports.VerseBuffer
	logger *slog.Logger
}

// NewCoordinator creates an interruption coordinator
func NewCoordinator(driver *Driver, repo ports.SlideRepository, verse ports.VerseBuffer, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Coordinator{
		mode:   ModeNormal,
		driver: driver,
		repo:   repo,
		verse:  verse,
		logger: logger.With("service", "coordinator"),
	}
}

// Startup takes a proactive backup snapshot so a later unexpected clear
// can always restore something, loads the initial list, and begins in
// whichever mode that list dictates.
func (c *Coordinator) Startup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.repo.BackupIfClean(); err != nil {
		c.logger.Warn("startup backup failed", slog.String("error", err.Error()))
	}

	list, err := c.repo.Load()
	if err != nil || len(list) == 0 {
		c.logger.Warn("no usable slide list at startup, using blank",
			slog.Any("error", err),
		)
		list = entities.BlankList()
	}

	if list.ContainsInterrupt() {
		c.mode = ModeEmergency
	} else {
		c.mode = ModeNormal
		// The live display opens on a neutral screen, not mid-song.
		// Emergency content is exempt: it must show immediately.
		list, _ = list.EnsureLeadingBlank()
	}

	c.driver.ReplaceList(list, 0)
	c.logger.Info("coordinator started",
		slog.Int("slides", len(list)),
		slog.String("mode", c.mode.String()),
	)

	return nil
}

// Run drains watcher events until the context is cancelled. The caller is
// expected to stop the watchers before cancelling so channel closes are
// observed here.
func (c *Coordinator) Run(ctx context.Context, slideEvents <-chan ports.SlideListEvent, verseEvents <-chan ports.VerseEvent) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-slideEvents:
			if !ok {
				slideEvents = nil
				continue
			}
			c.handleSlideEvent(event)

		case event, ok := <-verseEvents:
			if !ok {
				verseEvents = nil
				continue
			}
			c.handleVerseEvent(event)
		}

		if slideEvents == nil && verseEvents == nil {
			return
		}
	}
}

// Mode returns the current presentation mode
func (c *Coordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// BackupIndex returns the saved pre-emergency cursor
func (c *Coordinator) BackupIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backupIndex
}

// Stats returns a copy of the trigger counters
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// EnterEmergency begins an emergency override with slides built from user
// input: the active index is saved, the store is backed up if clean, and
// the emergency list replaces the presentation at index 0.
func (c *Coordinator) EnterEmergency(slides entities.SlideList) error {
	if len(slides) == 0 {
		return nil
	}

	c.mu.Lock()
	c.backupIndex = c.driver.Index()
	c.mode = ModeEmergency
	c.stats.EmergenciesEntered++
	c.mu.Unlock()

	if _, err := c.repo.BackupIfClean(); err != nil {
		c.logger.Warn("emergency backup failed", slog.String("error", err.Error()))
	}

	if err := c.repo.Save(slides); err != nil {
		c.logger.Warn("writing emergency slides failed", slog.String("error", err.Error()))
	}

	c.driver.ReplaceList(slides, 0)
	_ = c.driver.PublishCurrent()

	c.logger.Info("emergency mode entered",
		slog.Int("slides", len(slides)),
		slog.Int("backup_index", c.BackupIndex()),
	)
	return nil
}

// ClearEmergency is the explicit user exit: it empties the verse buffer
// and the slide store, then restores from backup. The watchers will also
// observe those writes; restoration here makes the exit immediate rather
// than waiting out a poll interval.
func (c *Coordinator) ClearEmergency() error {
	if err := c.verse.Clear(); err != nil {
		c.logger.Warn("clearing verse buffer failed", slog.String("error", err.Error()))
	}

	if err := c.repo.Clear(); err != nil {
		c.logger.Warn("clearing slide store failed", slog.String("error", err.Error()))
	}

	c.mu.Lock()
	c.stats.UserCleared++
	c.mu.Unlock()

	c.restore("user cleared emergency caption")
	return nil
}

func (c *Coordinator) handleSlideEvent(event ports.SlideListEvent) {
	switch event.Type {
	case ports.SlideListChanged:
		c.mu.Lock()
		if event.Slides.ContainsInterrupt() && c.mode != ModeEmergency {
			// The interruptor pipeline wrote emergency content into the
			// store; the changed signal is how this process learns of it.
			c.backupIndex = c.driver.Index()
			c.mode = ModeEmergency
			c.stats.EmergenciesEntered++
			c.logger.Info("emergency content detected in slide store")
		}
		c.mu.Unlock()

		c.driver.ReplaceList(event.Slides, event.Index)
		_ = c.driver.PublishCurrent()
		c.logger.Info("slide list replaced", slog.Int("slides", len(event.Slides)))

	case ports.SlideListCleared:
		c.mu.Lock()
		c.stats.StoreCleared++
		c.mu.Unlock()
		c.restore("slide store cleared")
	}
}

func (c *Coordinator) handleVerseEvent(event ports.VerseEvent) {
	if event.Type != ports.InterruptCleared {
		return
	}

	c.mu.Lock()
	c.stats.InterruptCleared++
	c.mu.Unlock()
	c.restore("interruptor cleared")
}

// restore loads the backup list (never merging), resumes at the saved
// backup index, and returns to normal mode. Restore failure degrades to a
// single blank slide at index 0; it is reported, not raised.
func (c *Coordinator) restore(reason string) {
	c.mu.Lock()
	index := c.backupIndex
	c.mu.Unlock()

	list, err := c.repo.Restore()
	if err != nil {
		c.mu.Lock()
		c.stats.RestoreFallbacks++
		c.mu.Unlock()

		c.logger.Warn("restore failed, falling back to blank slide",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		list = entities.BlankList()
		index = 0
	}

	c.mu.Lock()
	c.mode = ModeNormal
	c.mu.Unlock()

	c.driver.ReplaceList(list, index)
	_ = c.driver.PublishCurrent()

	c.logger.Info("presentation restored",
		slog.String("reason", reason),
		slog.Int("slides", len(list)),
		slog.Int("index", c.driver.Index()),
	)
}
