package httpapi

import "github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"

type errorResponse struct {
	Error string `json:"error"`
}

type registerResponse struct {
	Message    string     `json:"message"`
	ArtifactID string     `json:"artifact_id"`
	Record     recordJSON `json:"record"`
}

type recordJSON struct {
	ArtifactID  string `json:"artifact_id"`
	Fingerprint string `json:"fingerprint"`
	ObjectKey   string `json:"object_key"`
	Filename    string `json:"filename"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	Timestamp   string `json:"timestamp"`
	Status      string `json:"status"`
}

func recordView(r *domain.RegistrationRecord) recordJSON {
	return recordJSON{
		ArtifactID:  r.ArtifactID,
		Fingerprint: r.Fingerprint.Hex(),
		ObjectKey:   r.ObjectKey,
		Filename:    r.Filename,
		Width:       r.Width,
		Height:      r.Height,
		Format:      r.Format,
		Timestamp:   r.Timestamp,
		Status:      string(r.Status),
	}
}

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
