package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/adapters/driving/watch"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Register images dropped into a directory",
	Long: `Watches a directory and registers every image file that appears in
it. Without an argument the configured watch directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if registrarService == nil {
		return errors.New("registrar service not configured")
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" && serviceSettings != nil {
		dir = serviceSettings.WatchDir()
	}
	if dir == "" {
		return errors.New("no watch directory given or configured")
	}

	debounce := watcherDebounce()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s, press Ctrl+C to stop\n", dir)
	err := watch.NewWatcher(registrarService, debounce).Run(ctx, dir)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("Watcher stopped")
	return nil
}

func watcherDebounce() time.Duration {
	if serviceSettings != nil {
		return serviceSettings.WatchDebounce()
	}
	return 0
}
