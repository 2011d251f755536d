package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/services"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/logger"
)

var workerCount int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the watermark embedding worker",
	Long: `Consumes queued watermarking jobs: downloads the registered image,
embeds its artifact ID as an invisible watermark, and uploads the
result. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().IntVarP(&workerCount, "workers", "w", 0, "number of concurrent workers (default from config)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	if newWorker == nil {
		return errors.New("worker not configured")
	}

	n := workerCount
	if n <= 0 && serviceSettings != nil {
		n = serviceSettings.Workers()
	}
	if n <= 0 {
		n = 1
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Running %d watermarking worker(s), press Ctrl+C to stop\n", n)
	err := services.Fleet(ctx, n, newWorker)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("Workers stopped")
	return nil
}
