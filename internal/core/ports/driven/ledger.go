package driven

import (
	"context"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

// Ledger is the durable, append-only record of registrations. Records
// are inserted once and never mutated in place; verification reads them
// back by fingerprint equality.
type Ledger interface {
	// Insert appends a record and returns its ArtifactID. The ledger
	// assigns the Seq field; the caller's value is ignored.
	Insert(ctx context.Context, record domain.RegistrationRecord) (string, error)

	// FindByFingerprint returns all records whose fingerprint exactly
	// equals fp. Order is unspecified; the verdict engine imposes its
	// own ordering. An empty result is not an error.
	FindByFingerprint(ctx context.Context, fp domain.Fingerprint) ([]domain.RegistrationRecord, error)

	// All returns every record. Used by the duplicate checker's
	// similarity scan; ledgers are expected to stay small enough that a
	// full scan is tolerable, mirroring the original table scan.
	All(ctx context.Context) ([]domain.RegistrationRecord, error)
}
