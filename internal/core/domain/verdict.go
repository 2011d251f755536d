package domain

// Classification is the graded authenticity outcome of a verification.
type Classification string

const (
	// Verified means the recovered watermark matches the latest ledger
	// record for the image's fingerprint.
	Verified Classification = "VERIFIED"

	// PotentiallyAltered means the evidence conflicts: a fingerprint
	// match without the expected watermark, or a watermark that names a
	// different record.
	PotentiallyAltered Classification = "POTENTIALLY_ALTERED"

	// NotRegistered means no evidence ties the image to the ledger.
	NotRegistered Classification = "NOT_REGISTERED"
)

// Verdict is the classified authenticity decision for one verification
// call. Constructed fresh per call and never persisted by the core. The
// raw evidence is always carried so consumers can audit the decision.
type Verdict struct {
	// Classification is the graded outcome.
	Classification Classification

	// Confidence is the decision confidence in [0,1].
	Confidence float64

	// WatermarkFound reports whether a watermark payload was recovered.
	WatermarkFound bool

	// FingerprintMatch reports whether the ledger held at least one
	// record with an exactly matching fingerprint.
	FingerprintMatch bool

	// Fingerprint is the fingerprint computed from the submitted image.
	Fingerprint Fingerprint

	// MatchedID is the ArtifactID of the latest matching record, if any.
	MatchedID string

	// RegisteredAt is the timestamp of the latest matching record, if any.
	RegisteredAt string

	// WatermarkMismatch is set when a watermark was recovered but names
	// a different record than the latest fingerprint match.
	WatermarkMismatch bool
}

// DuplicateMatch pairs a ledger record with its Hamming distance from a
// candidate fingerprint.
type DuplicateMatch struct {
	Record   RegistrationRecord
	Distance int
}

// DuplicateReport is the outcome of a pre-registration duplicate check.
type DuplicateReport struct {
	// Fingerprint is the candidate image's fingerprint.
	Fingerprint Fingerprint

	// Exact is the first exact-match record, if any.
	Exact *RegistrationRecord

	// Similar lists records within the similarity threshold, nearest
	// first. Excludes exact matches.
	Similar []DuplicateMatch
}

// IsDuplicate reports whether the check found an exact or near match.
func (r *DuplicateReport) IsDuplicate() bool {
	return r.Exact != nil || len(r.Similar) > 0
}
