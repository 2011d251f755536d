package services

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driven"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driving"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/imaging"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/logger"
)

// Ensure Registrar implements the interface.
var _ driving.Registrar = (*Registrar)(nil)

// similarityThreshold is the maximum Hamming distance at which two
// fingerprints are reported as near-duplicates.
const similarityThreshold = 5

// uploadPrefix is the blob namespace for original uploads.
const uploadPrefix = "uploads/"

// Registrar runs the registration pipeline: fingerprint the artwork,
// append a ledger record, and queue a watermarking job.
type Registrar struct {
	blobs        driven.BlobStore
	ledger       driven.Ledger
	queue        driven.JobQueue
	fingerprints *FingerprintService
}

// NewRegistrar creates a registrar with explicit dependencies. Lifecycle
// of the injected handles is owned by the process entry point.
func NewRegistrar(
	blobs driven.BlobStore,
	ledger driven.Ledger,
	queue driven.JobQueue,
	fingerprints *FingerprintService,
) *Registrar {
	return &Registrar{
		blobs:        blobs,
		ledger:       ledger,
		queue:        queue,
		fingerprints: fingerprints,
	}
}

// Register fingerprints the image already stored under objectKey and
// records it in the ledger.
func (r *Registrar) Register(ctx context.Context, objectKey, filename string) (*domain.RegistrationRecord, error) {
	data, err := r.blobs.Get(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("get upload: %w", err)
	}
	return r.registerData(ctx, objectKey, filename, data)
}

// RegisterBytes stores raw image bytes under a fresh uploads/ key, then
// registers them.
func (r *Registrar) RegisterBytes(ctx context.Context, filename string, data []byte) (*domain.RegistrationRecord, error) {
	key := uploadKey(filename)
	if err := r.blobs.Put(ctx, key, data, contentTypeFor(filename)); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return r.registerData(ctx, key, filename, data)
}

// registerData runs the registration pipeline over image bytes already
// persisted under objectKey.
func (r *Registrar) registerData(ctx context.Context, objectKey, filename string, data []byte) (*domain.RegistrationRecord, error) {
	// 1. DECODE to the canonical pixel representation
	buf, format, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", objectKey, err)
	}

	// 2. FINGERPRINT
	fp, err := r.fingerprints.Compute(buf)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", objectKey, err)
	}

	// 3. APPEND LEDGER RECORD
	record := domain.RegistrationRecord{
		ArtifactID:  uuid.NewString(),
		Fingerprint: fp,
		ObjectKey:   objectKey,
		Filename:    filename,
		Width:       buf.Width,
		Height:      buf.Height,
		Format:      format,
		Timestamp:   domain.NewTimestamp(time.Now()),
		Status:      domain.StatusRegistered,
	}
	if _, err := r.ledger.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	// 4. QUEUE WATERMARKING
	job := domain.WatermarkJob{
		ArtifactID:  record.ArtifactID,
		ObjectKey:   objectKey,
		Fingerprint: fp,
	}
	if err := r.queue.Enqueue(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueue watermark job: %w", err)
	}

	logger.Info("Registered %s as %s (fingerprint %s)", filename, record.ArtifactID, fp)
	return &record, nil
}

// CheckDuplicate fingerprints candidate bytes and reports ledger
// matches without registering anything.
func (r *Registrar) CheckDuplicate(ctx context.Context, data []byte) (*domain.DuplicateReport, error) {
	buf, _, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode candidate: %w", err)
	}
	fp, err := r.fingerprints.Compute(buf)
	if err != nil {
		return nil, fmt.Errorf("fingerprint candidate: %w", err)
	}

	report := &domain.DuplicateReport{Fingerprint: fp}

	exact, err := r.ledger.FindByFingerprint(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("find by fingerprint: %w", err)
	}
	if len(exact) > 0 {
		first := latestRecord(exact)
		report.Exact = &first
	}

	// Near-match scan mirrors the original's full-table walk; ledgers
	// here are small enough that this is tolerable.
	all, err := r.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	for _, rec := range all {
		d := fp.Distance(rec.Fingerprint)
		if d == 0 || d > similarityThreshold {
			continue
		}
		report.Similar = append(report.Similar, domain.DuplicateMatch{Record: rec, Distance: d})
	}
	sort.Slice(report.Similar, func(i, j int) bool {
		return report.Similar[i].Distance < report.Similar[j].Distance
	})

	return report, nil
}

// uploadKey derives a fresh uploads/ key preserving the filename's
// extension.
func uploadKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return uploadPrefix + uuid.NewString() + ext
}

// contentTypeFor maps a filename extension to a MIME type.
func contentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}
