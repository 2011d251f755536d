package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/adapters/driven/storage/memory"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

type registrarFixture struct {
	blobs     *memory.BlobStore
	ledger    *memory.Ledger
	queue     *memory.JobQueue
	registrar *Registrar
}

func newRegistrarFixture() *registrarFixture {
	f := &registrarFixture{
		blobs:  memory.NewBlobStore(),
		ledger: memory.NewLedger(),
		queue:  memory.NewJobQueue(memory.DefaultQueueConfig()),
	}
	f.registrar = NewRegistrar(f.blobs, f.ledger, f.queue, NewFingerprintService())
	return f
}

func TestRegistrar_RegisterBytes(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the upload and records it in the ledger", func(t *testing.T) {
		f := newRegistrarFixture()
		data := pngBytes(t, gradientBuffer(64, 48))

		record, err := f.registrar.RegisterBytes(ctx, "artwork.png", data)

		require.NoError(t, err)
		assert.NotEmpty(t, record.ArtifactID)
		assert.True(t, strings.HasPrefix(record.ObjectKey, "uploads/"))
		assert.Equal(t, "artwork.png", record.Filename)
		assert.Equal(t, 64, record.Width)
		assert.Equal(t, 48, record.Height)
		assert.Equal(t, "png", record.Format)
		assert.Equal(t, domain.StatusRegistered, record.Status)
		assert.NotEmpty(t, record.Timestamp)

		stored, err := f.blobs.Get(ctx, record.ObjectKey)
		require.NoError(t, err)
		assert.Equal(t, data, stored)

		matches, err := f.ledger.FindByFingerprint(ctx, record.Fingerprint)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, record.ArtifactID, matches[0].ArtifactID)
	})

	t.Run("queues a watermarking job for the new record", func(t *testing.T) {
		f := newRegistrarFixture()

		record, err := f.registrar.RegisterBytes(ctx, "artwork.png", pngBytes(t, gradientBuffer(64, 48)))
		require.NoError(t, err)

		jobs, err := f.queue.Receive(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, record.ArtifactID, jobs[0].ArtifactID)
		assert.Equal(t, record.ObjectKey, jobs[0].ObjectKey)
		assert.Equal(t, record.Fingerprint, jobs[0].Fingerprint)
	})

	t.Run("rejects bytes that do not decode as an image", func(t *testing.T) {
		f := newRegistrarFixture()

		_, err := f.registrar.RegisterBytes(ctx, "notes.txt", []byte("plain text"))

		assert.ErrorIs(t, err, domain.ErrDecode)
		assert.Equal(t, 0, f.queue.Pending())
	})

	t.Run("registering the same bytes twice yields distinct records", func(t *testing.T) {
		f := newRegistrarFixture()
		data := pngBytes(t, gradientBuffer(64, 48))

		first, err := f.registrar.RegisterBytes(ctx, "a.png", data)
		require.NoError(t, err)
		second, err := f.registrar.RegisterBytes(ctx, "a.png", data)
		require.NoError(t, err)

		assert.NotEqual(t, first.ArtifactID, second.ArtifactID)
		assert.Equal(t, first.Fingerprint, second.Fingerprint)

		matches, err := f.ledger.FindByFingerprint(ctx, first.Fingerprint)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})
}

func TestRegistrar_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers an image already stored under a key", func(t *testing.T) {
		f := newRegistrarFixture()
		data := pngBytes(t, gradientBuffer(64, 48))
		require.NoError(t, f.blobs.Put(ctx, "uploads/existing.png", data, "image/png"))

		record, err := f.registrar.Register(ctx, "uploads/existing.png", "existing.png")

		require.NoError(t, err)
		assert.Equal(t, "uploads/existing.png", record.ObjectKey)
	})

	t.Run("fails when the key does not exist", func(t *testing.T) {
		f := newRegistrarFixture()

		_, err := f.registrar.Register(ctx, "uploads/missing.png", "missing.png")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRegistrar_CheckDuplicate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown images report clean", func(t *testing.T) {
		f := newRegistrarFixture()

		report, err := f.registrar.CheckDuplicate(ctx, pngBytes(t, gradientBuffer(64, 48)))

		require.NoError(t, err)
		assert.False(t, report.IsDuplicate())
		assert.Nil(t, report.Exact)
		assert.Empty(t, report.Similar)
	})

	t.Run("registered images report an exact match", func(t *testing.T) {
		f := newRegistrarFixture()
		data := pngBytes(t, gradientBuffer(64, 48))
		record, err := f.registrar.RegisterBytes(ctx, "a.png", data)
		require.NoError(t, err)

		report, err := f.registrar.CheckDuplicate(ctx, data)

		require.NoError(t, err)
		assert.True(t, report.IsDuplicate())
		require.NotNil(t, report.Exact)
		assert.Equal(t, record.ArtifactID, report.Exact.ArtifactID)
		assert.Equal(t, record.Fingerprint, report.Fingerprint)
	})

	t.Run("near fingerprints report as similar, nearest first", func(t *testing.T) {
		f := newRegistrarFixture()
		data := pngBytes(t, gradientBuffer(64, 48))
		fp, err := NewFingerprintService().Compute(gradientBuffer(64, 48))
		require.NoError(t, err)

		// Seed records whose fingerprints differ by a few bits.
		for _, seed := range []struct {
			id   string
			flip domain.Fingerprint
		}{
			{"near-3", 0b111},
			{"near-1", 0b1},
			{"far", 0xFFFF_FFFF},
		} {
			_, err := f.ledger.Insert(ctx, domain.RegistrationRecord{
				ArtifactID:  seed.id,
				Fingerprint: fp ^ seed.flip,
				Timestamp:   "2026-01-01T00:00:00Z",
			})
			require.NoError(t, err)
		}

		report, err := f.registrar.CheckDuplicate(ctx, data)

		require.NoError(t, err)
		assert.Nil(t, report.Exact)
		require.Len(t, report.Similar, 2)
		assert.Equal(t, "near-1", report.Similar[0].Record.ArtifactID)
		assert.Equal(t, 1, report.Similar[0].Distance)
		assert.Equal(t, "near-3", report.Similar[1].Record.ArtifactID)
		assert.Equal(t, 3, report.Similar[1].Distance)
	})
}
