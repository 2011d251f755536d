// Package cli wires the service's commands: registration, duplicate
// checking, verification, the watermarking worker, the HTTP API, and
// the ingest watcher. Commands talk to the core exclusively through the
// driving ports.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/adapters/driven/blob/fs"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/adapters/driven/config/file"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/adapters/driven/storage/sqlite"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driving"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/services"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configDir string
	verbose   bool
)

// Services the commands run against. Wired from config on first use;
// tests swap in fakes directly.
var (
	registrarService driving.Registrar
	verifierService  driving.Verifier
	serviceSettings  *file.Settings
	newWorker        func() *services.Worker

	store *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "hatchmark",
	Short: "Register and verify image authenticity",
	Long: `Hatchmark registers digital artwork by perceptual fingerprint,
embeds invisible watermarks into registered images, and verifies the
authenticity of submitted copies against the registration ledger.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		// version and help need no services.
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return wireServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.hatchmark)")
}

// Execute runs the CLI and releases wired resources afterwards.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// wireServices assembles the adapter stack from configuration. A test
// that already injected services keeps them.
func wireServices() error {
	if registrarService != nil {
		return nil
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	serviceSettings = file.NewSettings(configStore)

	store, err = sqlite.NewStore(serviceSettings.DataDir())
	if err != nil {
		return fmt.Errorf("opening ledger store: %w", err)
	}

	blobs, err := fs.NewBlobStore(serviceSettings.BlobDir())
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}

	ledger := store.Ledger()
	queue := store.JobQueue(sqlite.QueueConfig{
		Visibility:  serviceSettings.Visibility(),
		MaxReceives: serviceSettings.MaxReceives(),
	})

	fingerprints := services.NewFingerprintService()
	codec := services.NewWatermarkCodec()

	registrarService = services.NewRegistrar(blobs, ledger, queue, fingerprints)
	verifierService = services.NewVerifier(ledger, fingerprints, codec, services.NewVerdictEngine())
	newWorker = func() *services.Worker {
		return services.NewWorker(blobs, queue, codec, services.WorkerConfig{
			BatchSize:      serviceSettings.BatchSize(),
			PollsPerSecond: serviceSettings.PollsPerSecond(),
		})
	}

	logger.Debug("Services wired: ledger=%s blobs=%s", store.Path(), serviceSettings.BlobDir())
	return nil
}

// closeServices releases the database handle, if one was opened.
func closeServices() {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("Closing ledger store: %v", err)
		}
		store = nil
	}
}
