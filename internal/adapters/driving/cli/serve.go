package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/adapters/driving/httpapi"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves registration, verification, and duplicate checking over HTTP.
Watermarking still happens in the worker; run "hatchmark worker"
alongside to drain the queue.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if registrarService == nil || verifierService == nil {
		return errors.New("services not configured")
	}

	addr := serveAddr
	if addr == "" && serviceSettings != nil {
		addr = serviceSettings.HTTPAddr()
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewServer(registrarService, verifierService).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()
	cmd.Printf("Serving HTTP API on %s, press Ctrl+C to stop\n", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("HTTP API stopped")
	return nil
}
