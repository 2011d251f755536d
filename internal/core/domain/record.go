package domain

import "time"

// RegistrationStatus tracks where an artifact is in the registration
// pipeline. Records are append-only; status is fixed at insertion.
type RegistrationStatus string

const (
	// StatusRegistered means the fingerprint is in the ledger and a
	// watermarking job has been queued.
	StatusRegistered RegistrationStatus = "REGISTERED"
)

// RegistrationRecord is a durable ledger entry created once at
// registration time and never updated. The ledger owns it; the core
// only reads it back during verification.
type RegistrationRecord struct {
	// ArtifactID is the unique identifier for the registered artwork.
	// It is also the payload embedded by the watermark codec.
	ArtifactID string

	// Seq is the ledger-assigned insertion sequence number. Strictly
	// increasing per ledger; used to break timestamp ties when picking
	// the latest matching record.
	Seq int64

	// Fingerprint is the perceptual fingerprint computed at registration.
	Fingerprint Fingerprint

	// ObjectKey is the blob store key of the original upload.
	ObjectKey string

	// Filename is the original client-supplied file name.
	Filename string

	// Width and Height are the pixel dimensions at registration.
	Width  int
	Height int

	// Format is the detected raster format ("png", "jpeg").
	Format string

	// Timestamp is the UTC registration time in RFC 3339. Fixed-width
	// UTC timestamps compare correctly as strings.
	Timestamp string

	// Status is the pipeline status recorded at insertion.
	Status RegistrationStatus
}

// NewTimestamp formats a registration timestamp in the canonical form.
func NewTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
