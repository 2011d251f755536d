package services

import (
	"context"
	"fmt"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driven"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driving"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/imaging"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/logger"
)

// Ensure Verifier implements the interface.
var _ driving.Verifier = (*Verifier)(nil)

// Verifier runs the verification pipeline over arbitrary image bytes.
// Watermark recovery and fingerprinting run independently; neither
// depends on metadata from the file.
type Verifier struct {
	ledger       driven.Ledger
	fingerprints *FingerprintService
	codec        *WatermarkCodec
	engine       *VerdictEngine
}

// NewVerifier creates a verifier with explicit dependencies.
func NewVerifier(
	ledger driven.Ledger,
	fingerprints *FingerprintService,
	codec *WatermarkCodec,
	engine *VerdictEngine,
) *Verifier {
	return &Verifier{
		ledger:       ledger,
		fingerprints: fingerprints,
		codec:        codec,
		engine:       engine,
	}
}

// Verify classifies the authenticity of the submitted image.
// Undecodable input fails with domain.ErrDecode wrapped for the caller
// to map to a rejected-input response; every other outcome is a
// Verdict.
func (v *Verifier) Verify(ctx context.Context, data []byte) (*domain.Verdict, error) {
	// 1. DECODE
	buf, _, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}

	// 2. RECOVER WATERMARK and FINGERPRINT independently
	payload, found := v.codec.Extract(buf)
	fp, err := v.fingerprints.Compute(buf)
	if err != nil {
		return nil, fmt.Errorf("fingerprint submission: %w", err)
	}

	// 3. QUERY LEDGER by exact fingerprint
	records, err := v.ledger.FindByFingerprint(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("find by fingerprint: %w", err)
	}

	// 4. FUSE EVIDENCE
	verdict := v.engine.Classify(payload, found, fp, records)
	logger.Debug("Verdict %s (%.2f): watermark=%t matches=%d",
		verdict.Classification, verdict.Confidence, found, len(records))
	return verdict, nil
}
