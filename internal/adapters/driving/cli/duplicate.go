package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

var duplicateJSON bool

var duplicateCmd = &cobra.Command{
	Use:   "duplicate-check [image-file]",
	Short: "Check whether an image is already registered",
	Long: `Fingerprints the image and reports exact and near-duplicate ledger
records without registering anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runDuplicateCheck,
}

func init() {
	duplicateCmd.Flags().BoolVar(&duplicateJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(duplicateCmd)
}

func runDuplicateCheck(cmd *cobra.Command, args []string) error {
	if registrarService == nil {
		return errors.New("registrar service not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	report, err := registrarService.CheckDuplicate(context.Background(), data)
	if err != nil {
		if errors.Is(err, domain.ErrDecode) || errors.Is(err, domain.ErrInvalidImage) {
			return fmt.Errorf("%s is not a supported image: %w", args[0], err)
		}
		return fmt.Errorf("duplicate check failed: %w", err)
	}

	if duplicateJSON {
		return printJSON(cmd, duplicateView(report))
	}

	if !report.IsDuplicate() {
		cmd.Printf("No registered duplicates of %s found.\n", args[0])
		return nil
	}

	if report.Exact != nil {
		cmd.Printf("Exact match: %s (registered %s)\n", report.Exact.ArtifactID, report.Exact.Timestamp)
	}
	for _, m := range report.Similar {
		cmd.Printf("Similar (distance %d): %s (registered %s)\n", m.Distance, m.Record.ArtifactID, m.Record.Timestamp)
	}
	return nil
}

type duplicateMatchJSON struct {
	Record   recordJSON `json:"record"`
	Distance int        `json:"distance"`
}

type duplicateReportJSON struct {
	Fingerprint string               `json:"fingerprint"`
	IsDuplicate bool                 `json:"is_duplicate"`
	Exact       *recordJSON          `json:"exact,omitempty"`
	Similar     []duplicateMatchJSON `json:"similar,omitempty"`
}

func duplicateView(r *domain.DuplicateReport) duplicateReportJSON {
	out := duplicateReportJSON{
		Fingerprint: r.Fingerprint.Hex(),
		IsDuplicate: r.IsDuplicate(),
	}
	if r.Exact != nil {
		exact := recordView(r.Exact)
		out.Exact = &exact
	}
	for _, m := range r.Similar {
		out.Similar = append(out.Similar, duplicateMatchJSON{
			Record:   recordView(&m.Record),
			Distance: m.Distance,
		})
	}
	return out
}
