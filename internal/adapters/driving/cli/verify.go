package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

var verifyJSON bool

var verifyCmd = &cobra.Command{
	Use:   "verify [image-file]",
	Short: "Verify an image against the authenticity ledger",
	Long: `Recovers the invisible watermark and computes the perceptual
fingerprint of the image, then classifies it as VERIFIED,
POTENTIALLY_ALTERED, or NOT_REGISTERED.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "output the verdict as JSON")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	if verifierService == nil {
		return errors.New("verifier service not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	verdict, err := verifierService.Verify(context.Background(), data)
	if err != nil {
		if errors.Is(err, domain.ErrDecode) || errors.Is(err, domain.ErrInvalidImage) {
			return fmt.Errorf("%s is not a supported image: %w", args[0], err)
		}
		return fmt.Errorf("verification failed: %w", err)
	}

	if verifyJSON {
		return printJSON(cmd, verdictView(verdict))
	}

	cmd.Printf("Verdict:     %s (confidence %.2f)\n", verdict.Classification, verdict.Confidence)
	cmd.Printf("  Watermark:   %s\n", describeWatermark(verdict))
	cmd.Printf("  Fingerprint: %s\n", verdict.Fingerprint.Hex())
	if verdict.MatchedID != "" {
		cmd.Printf("  Matched:     %s (registered %s)\n", verdict.MatchedID, verdict.RegisteredAt)
	}
	return nil
}

func describeWatermark(v *domain.Verdict) string {
	switch {
	case !v.WatermarkFound:
		return "not found"
	case v.WatermarkMismatch:
		return "found, names a different record"
	default:
		return "found"
	}
}

// verdictJSON is the verify command's machine-readable output shape.
type verdictJSON struct {
	Classification    string  `json:"classification"`
	Confidence        float64 `json:"confidence"`
	WatermarkFound    bool    `json:"watermark_found"`
	FingerprintMatch  bool    `json:"fingerprint_match"`
	Fingerprint       string  `json:"fingerprint"`
	MatchedID         string  `json:"matched_id,omitempty"`
	RegisteredAt      string  `json:"registered_at,omitempty"`
	WatermarkMismatch bool    `json:"watermark_mismatch,omitempty"`
}

func verdictView(v *domain.Verdict) verdictJSON {
	return verdictJSON{
		Classification:    string(v.Classification),
		Confidence:        v.Confidence,
		WatermarkFound:    v.WatermarkFound,
		FingerprintMatch:  v.FingerprintMatch,
		Fingerprint:       v.Fingerprint.Hex(),
		MatchedID:         v.MatchedID,
		RegisteredAt:      v.RegisteredAt,
		WatermarkMismatch: v.WatermarkMismatch,
	}
}
