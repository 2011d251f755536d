package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

var registerJSON bool

var registerCmd = &cobra.Command{
	Use:   "register [image-file]",
	Short: "Register an image in the authenticity ledger",
	Long: `Fingerprints the image, appends a registration record to the ledger,
and queues a watermarking job. The watermarked copy is produced
asynchronously by the worker.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().BoolVar(&registerJSON, "json", false, "output the record as JSON")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	if registrarService == nil {
		return errors.New("registrar service not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	record, err := registrarService.RegisterBytes(context.Background(), filepath.Base(args[0]), data)
	if err != nil {
		if errors.Is(err, domain.ErrDecode) || errors.Is(err, domain.ErrInvalidImage) {
			return fmt.Errorf("%s is not a supported image: %w", args[0], err)
		}
		return fmt.Errorf("registration failed: %w", err)
	}

	if registerJSON {
		return printJSON(cmd, recordView(record))
	}

	cmd.Printf("Registered %s\n", record.Filename)
	cmd.Printf("  Artifact ID: %s\n", record.ArtifactID)
	cmd.Printf("  Fingerprint: %s\n", record.Fingerprint.Hex())
	cmd.Printf("  Stored at:   %s\n", record.ObjectKey)
	cmd.Printf("  Registered:  %s\n", record.Timestamp)
	return nil
}

// recordJSON is the register command's machine-readable output shape.
type recordJSON struct {
	ArtifactID  string `json:"artifact_id"`
	Fingerprint string `json:"fingerprint"`
	ObjectKey   string `json:"object_key"`
	Filename    string `json:"filename"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	Timestamp   string `json:"timestamp"`
	Status      string `json:"status"`
}

func recordView(r *domain.RegistrationRecord) recordJSON {
	return recordJSON{
		ArtifactID:  r.ArtifactID,
		Fingerprint: r.Fingerprint.Hex(),
		ObjectKey:   r.ObjectKey,
		Filename:    r.Filename,
		Width:       r.Width,
		Height:      r.Height,
		Format:      r.Format,
		Timestamp:   r.Timestamp,
		Status:      string(r.Status),
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
