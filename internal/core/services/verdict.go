package services

import (
	"sort"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

// Confidence levels for each row of the verdict decision table.
const (
	confidenceNotRegistered     = 0.95
	confidenceVerified          = 0.98
	confidenceWatermarkMismatch = 0.60
	confidenceMissingWatermark  = 0.75
)

// VerdictEngine fuses watermark-recovery and fingerprint-match evidence
// into a graded verdict. Pure decision logic; it performs no I/O and
// never fails. Absence of evidence is a data point (NOT_REGISTERED),
// not an error.
type VerdictEngine struct{}

// NewVerdictEngine returns an engine.
func NewVerdictEngine() *VerdictEngine {
	return &VerdictEngine{}
}

// Classify evaluates the decision table in priority order, first match
// wins:
//
//	watermark absent,   no records      -> NOT_REGISTERED      0.95
//	watermark == latest record's ID     -> VERIFIED            0.98
//	watermark present but mismatched    -> POTENTIALLY_ALTERED 0.60
//	watermark absent,   records present -> POTENTIALLY_ALTERED 0.75
//
// "latest" is the matching record with the greatest timestamp
// (fixed-width UTC RFC 3339 strings compare lexicographically); ties
// are broken by the greatest ledger insertion sequence, so the outcome
// never depends on store iteration order.
func (e *VerdictEngine) Classify(
	payload []byte,
	watermarkFound bool,
	fp domain.Fingerprint,
	records []domain.RegistrationRecord,
) *domain.Verdict {
	v := &domain.Verdict{
		Classification:   domain.NotRegistered,
		Confidence:       confidenceNotRegistered,
		WatermarkFound:   watermarkFound,
		FingerprintMatch: len(records) > 0,
		Fingerprint:      fp,
	}

	if len(records) == 0 {
		return v
	}

	latest := latestRecord(records)
	v.MatchedID = latest.ArtifactID
	v.RegisteredAt = latest.Timestamp

	switch {
	case watermarkFound && string(payload) == latest.ArtifactID:
		v.Classification = domain.Verified
		v.Confidence = confidenceVerified

	case watermarkFound:
		v.Classification = domain.PotentiallyAltered
		v.Confidence = confidenceWatermarkMismatch
		v.WatermarkMismatch = true

	default:
		v.Classification = domain.PotentiallyAltered
		v.Confidence = confidenceMissingWatermark
	}
	return v
}

// latestRecord picks the record with the greatest (Timestamp, Seq) pair.
func latestRecord(records []domain.RegistrationRecord) domain.RegistrationRecord {
	sorted := make([]domain.RegistrationRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp > sorted[j].Timestamp
		}
		return sorted[i].Seq > sorted[j].Seq
	})
	return sorted[0]
}
