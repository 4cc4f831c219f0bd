package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/worship-tools/slidecast/internal/adapters/secondary/caption"
	"github.com/worship-tools/slidecast/internal/adapters/secondary/publisher"
	"github.com/worship-tools/slidecast/internal/adapters/secondary/store"
	"github.com/worship-tools/slidecast/internal/adapters/secondary/watcher"
	"github.com/worship-tools/slidecast/internal/domain/services"
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Run the interactive slide controller",
	Long: `Starts the controller host: loads the slide list from the store,
connects to the broadcast server as a publisher, and watches the store
and the emergency verse buffer for external changes.

Commands read from stdin:

  next            advance to the next slide
  prev            step back one slide
  goto N          jump to slide N (zero-based)
  emergency TEXT  write TEXT to the verse buffer, entering emergency mode
  clear           clear the emergency caption and restore the backup
  status          print mode, slide position, and counters
  quit            exit`,
	RunE: runControl,
}

func init() {
	controlCmd.Flags().IntP("port", "p", 0, "broadcast server port")
	controlCmd.Flags().String("host", "", "broadcast server host")
	controlCmd.Flags().String("store-dir", "", "slide store directory")
	controlCmd.Flags().Int("poll-interval", 0, "store poll interval in milliseconds")
	controlCmd.Flags().Bool("no-interruptor", false, "do not run the verse interruptor in-process")
	controlCmd.Flags().String("house-caption", "", "caption line for announcement slides")
	rootCmd.AddCommand(controlCmd)
}

func runControl(cmd *cobra.Command, args []string) error {
	cfg, err := loadAndMergeConfig(cmd)
	if err != nil {
		return err
	}
	if err := ensureStoreDir(cfg); err != nil {
		return err
	}

	logger := newSlogLogger(&cfg.Logging)

	repo := store.NewFileStore(cfg.Paths.SlidePath(), cfg.Paths.BackupPath(), logger)
	verse := store.NewVerseFile(cfg.Paths.VersePath())

	pub := publisher.NewClient(cfg.Server.URL(), logger)
	driver := services.NewDriver(pub, logger)
	coord := services.NewCoordinator(driver, repo, verse, logger)

	if err := coord.Startup(); err != nil {
		return fmt.Errorf("controller startup: %w", err)
	}

	ctx := cmd.Context()

	if err := pub.Connect(ctx); err != nil {
		logger.Warn("broadcast server unreachable, publishing disabled until reconnect",
			"url", cfg.Server.URL(), "error", err)
	} else {
		defer pub.Close()
		if err := driver.PublishCurrent(); err != nil {
			logger.Warn("initial publish failed", "error", err)
		}
	}

	slideWatcher := watcher.NewSlideListWatcher(cfg.Watcher.GetInterval(), cfg.Watcher.GetJitter(), cfg.Watcher.GetDebounce(), logger)
	slideEvents, err := slideWatcher.Watch(ctx, cfg.Paths.SlidePath())
	if err != nil {
		return fmt.Errorf("watching slide store: %w", err)
	}
	defer slideWatcher.Stop()

	verseWatcher := watcher.NewVerseBufferWatcher(cfg.Watcher.GetInterval(), cfg.Watcher.GetJitter(), cfg.Watcher.GetDebounce(), logger)
	verseEvents, err := verseWatcher.Watch(ctx, cfg.Paths.VersePath())
	if err != nil {
		return fmt.Errorf("watching verse buffer: %w", err)
	}
	defer verseWatcher.Stop()

	go coord.Run(ctx, slideEvents, verseEvents)

	noInterruptor, _ := cmd.Flags().GetBool("no-interruptor")
	if !noInterruptor {
		houseCaption, _ := cmd.Flags().GetString("house-caption")
		factory := caption.NewFactory(caption.DefaultMaxCols, houseCaption)
		interruptWatcher := watcher.NewVerseBufferWatcher(cfg.Watcher.GetInterval(), cfg.Watcher.GetJitter(), cfg.Watcher.GetDebounce(), logger)
		interruptor := services.NewInterruptService(interruptWatcher, factory, repo, logger)
		if err := interruptor.Start(ctx, cfg.Paths.VersePath()); err != nil {
			return fmt.Errorf("starting interruptor: %w", err)
		}
		defer interruptor.Stop()
	}

	fmt.Printf("Controller ready, %d slides loaded (mode: %s)\n", driver.Len(), coord.Mode())

	return commandLoop(ctx, cmd, driver, coord, verse)
}

func commandLoop(ctx context.Context, cmd *cobra.Command, driver *services.Driver, coord *services.Coordinator, verse *store.VerseFile) error {
	// Cancelling on return releases the scanner goroutine even when the
	// loop exits by command rather than by context.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "next", "n":
				if driver.Advance() {
					publishAndReport(out, driver)
				} else {
					fmt.Fprintln(out, "already at last slide")
				}
			case "prev", "p":
				if driver.Retreat() {
					publishAndReport(out, driver)
				} else {
					fmt.Fprintln(out, "already at first slide")
				}
			case "goto", "g":
				if len(fields) < 2 {
					fmt.Fprintln(out, "usage: goto N")
					continue
				}
				i, err := strconv.Atoi(fields[1])
				if err != nil || !driver.Jump(i) {
					fmt.Fprintf(out, "no slide %s (have %d)\n", fields[1], driver.Len())
					continue
				}
				publishAndReport(out, driver)
			case "emergency", "e":
				text := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
				if text == "" {
					fmt.Fprintln(out, "usage: emergency TEXT")
					continue
				}
				if err := verse.Write(text); err != nil {
					fmt.Fprintf(out, "emergency failed: %v\n", err)
					continue
				}
				fmt.Fprintln(out, "emergency caption queued")
			case "clear", "c":
				if err := coord.ClearEmergency(); err != nil {
					fmt.Fprintf(out, "clear failed: %v\n", err)
					continue
				}
				publishAndReport(out, driver)
			case "status", "s":
				stats := coord.Stats()
				fmt.Fprintf(out, "mode=%s slide=%d/%d emergencies=%d cleared(user=%d interruptor=%d store=%d) fallbacks=%d\n",
					coord.Mode(), driver.Index()+1, driver.Len(),
					stats.EmergenciesEntered, stats.UserCleared, stats.InterruptCleared,
					stats.StoreCleared, stats.RestoreFallbacks)
			case "quit", "q", "exit":
				return nil
			default:
				fmt.Fprintf(out, "unknown command %q\n", fields[0])
			}
		}
	}
}

func publishAndReport(out io.Writer, driver *services.Driver) {
	if err := driver.PublishCurrent(); err != nil {
		fmt.Fprintf(out, "publish failed: %v\n", err)
		return
	}
	if slide, ok := driver.Current(); ok {
		fmt.Fprintf(out, "[%d/%d] %s %s\n", driver.Index()+1, driver.Len(), slide.Style, slide.Preview(40))
	}
}
