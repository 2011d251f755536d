package memory

import (
	"context"
	"sync"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driven"
)

// Ensure Ledger implements the interface.
var _ driven.Ledger = (*Ledger)(nil)

// Ledger is an in-memory implementation of driven.Ledger.
// Append-only: records are never updated or removed.
type Ledger struct {
	mu      sync.RWMutex
	records []domain.RegistrationRecord
	byFP    map[domain.Fingerprint][]int
	nextSeq int64
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{byFP: make(map[domain.Fingerprint][]int)}
}

// Insert appends a record, assigning the next sequence number.
func (l *Ledger) Insert(_ context.Context, record domain.RegistrationRecord) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextSeq++
	record.Seq = l.nextSeq
	l.byFP[record.Fingerprint] = append(l.byFP[record.Fingerprint], len(l.records))
	l.records = append(l.records, record)
	return record.ArtifactID, nil
}

// FindByFingerprint returns all records with exactly matching
// fingerprints, in insertion order.
func (l *Ledger) FindByFingerprint(_ context.Context, fp domain.Fingerprint) ([]domain.RegistrationRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	indices := l.byFP[fp]
	out := make([]domain.RegistrationRecord, 0, len(indices))
	for _, i := range indices {
		out = append(out, l.records[i])
	}
	return out, nil
}

// All returns every record in insertion order.
func (l *Ledger) All(_ context.Context) ([]domain.RegistrationRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.RegistrationRecord, len(l.records))
	copy(out, l.records)
	return out, nil
}
