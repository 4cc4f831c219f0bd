package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worship-tools/slidecast/internal/adapters/secondary/caption"
	"github.com/worship-tools/slidecast/internal/adapters/secondary/store"
	"github.com/worship-tools/slidecast/internal/adapters/secondary/watcher"
	"github.com/worship-tools/slidecast/internal/domain/services"
)

var interruptCmd = &cobra.Command{
	Use:   "interrupt",
	Short: "Run the standalone verse interruptor",
	Long: `Watches the emergency verse buffer and, whenever its content changes,
composes caption slides from it and writes them into the slide store,
backing up the regular slide list first.

Use this when the interruptor should run on a different machine than
the controller; otherwise the controller runs it in-process.`,
	RunE: runInterrupt,
}

func init() {
	interruptCmd.Flags().String("store-dir", "", "slide store directory")
	interruptCmd.Flags().Int("poll-interval", 0, "buffer poll interval in milliseconds")
	interruptCmd.Flags().Int("max-cols", caption.DefaultMaxCols, "display columns per caption line")
	interruptCmd.Flags().String("house-caption", "", "caption line for announcement slides")
	rootCmd.AddCommand(interruptCmd)
}

func runInterrupt(cmd *cobra.Command, args []string) error {
	cfg, err := loadAndMergeConfig(cmd)
	if err != nil {
		return err
	}
	if err := ensureStoreDir(cfg); err != nil {
		return err
	}

	logger := newSlogLogger(&cfg.Logging)

	maxCols, _ := cmd.Flags().GetInt("max-cols")
	houseCaption, _ := cmd.Flags().GetString("house-caption")

	repo := store.NewFileStore(cfg.Paths.SlidePath(), cfg.Paths.BackupPath(), logger)
	factory := caption.NewFactory(maxCols, houseCaption)
	verseWatcher := watcher.NewVerseBufferWatcher(cfg.Watcher.GetInterval(), cfg.Watcher.GetJitter(), cfg.Watcher.GetDebounce(), logger)
	interruptor := services.NewInterruptService(verseWatcher, factory, repo, logger)

	ctx := cmd.Context()
	if err := interruptor.Start(ctx, cfg.Paths.VersePath()); err != nil {
		return fmt.Errorf("starting interruptor: %w", err)
	}
	defer interruptor.Stop()

	fmt.Printf("Interruptor watching %s\n", cfg.Paths.VersePath())
	fmt.Println("Press Ctrl+C to stop")

	<-ctx.Done()
	return nil
}
