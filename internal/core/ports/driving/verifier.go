package driving

import (
	"context"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

// Verifier answers authenticity queries for arbitrary image bytes.
// The image needs no cooperating metadata: the watermark and the
// fingerprint are both recovered from pixel data alone.
type Verifier interface {
	// Verify decodes the image, recovers the watermark and fingerprint
	// independently, queries the ledger, and fuses the evidence into a
	// Verdict. Only undecodable input fails; absence of evidence is a
	// NOT_REGISTERED verdict, not an error.
	Verify(ctx context.Context, data []byte) (*domain.Verdict, error)
}
