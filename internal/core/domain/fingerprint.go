package domain

import (
	"fmt"
	"math/bits"
	"strconv"
)

// Fingerprint is a 64-bit perceptual summary of an image's visual
// content. Stable under lossless re-encoding, fragile to genuine content
// changes. Immutable once computed.
type Fingerprint uint64

// Hex returns the canonical 16-character lowercase hex encoding.
// This is the form persisted in the ledger and exchanged over the wire.
func (f Fingerprint) Hex() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// String implements fmt.Stringer.
func (f Fingerprint) String() string {
	return f.Hex()
}

// Distance returns the Hamming distance to another fingerprint:
// the number of differing bits, in [0,64].
func (f Fingerprint) Distance(other Fingerprint) int {
	return bits.OnesCount64(uint64(f) ^ uint64(other))
}

// ParseFingerprint parses the canonical hex encoding produced by Hex.
func ParseFingerprint(s string) (Fingerprint, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("%w: fingerprint must be 16 hex characters, got %d", ErrInvalidInput, len(s))
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse fingerprint: %w", err)
	}
	return Fingerprint(v), nil
}
