package driving

import (
	"context"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

// Registrar records new artwork in the ledger and queues it for
// watermarking.
type Registrar interface {
	// Register fingerprints the image already stored under objectKey,
	// appends a ledger record, and enqueues a watermarking job.
	Register(ctx context.Context, objectKey, filename string) (*domain.RegistrationRecord, error)

	// RegisterBytes stores raw image bytes in the blob store under a
	// fresh uploads/ key, then registers them. This is the local
	// stand-in for a presigned-URL upload leg.
	RegisterBytes(ctx context.Context, filename string, data []byte) (*domain.RegistrationRecord, error)

	// CheckDuplicate fingerprints candidate bytes and reports exact and
	// near matches already present in the ledger, without registering.
	CheckDuplicate(ctx context.Context, data []byte) (*domain.DuplicateReport, error)
}
