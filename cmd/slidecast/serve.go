package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worship-tools/slidecast/internal/adapters/primary/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the slide broadcast server",
	Long: `Starts the WebSocket broadcast server that overlay pages connect to.

Every message published by a connected client is fanned out to all
clients, so a single controller drives any number of display pages.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on")
	serveCmd.Flags().String("host", "", "host interface to bind")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadAndMergeConfig(cmd)
	if err != nil {
		return err
	}

	server := ws.NewServerWithLogging(&cfg.Server, &cfg.Logging)

	ctx := cmd.Context()
	if err := server.Start(ctx, cfg.Server.Host, cfg.Server.Port); err != nil {
		return fmt.Errorf("starting broadcast server: %w", err)
	}

	fmt.Printf("Broadcast server listening on ws://%s:%d/ws\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()
	return server.Stop(stopCtx)
}
