package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id string, fp domain.Fingerprint) domain.RegistrationRecord {
	return domain.RegistrationRecord{
		ArtifactID:  id,
		Fingerprint: fp,
		ObjectKey:   "uploads/" + id + ".png",
		Filename:    id + ".png",
		Width:       64,
		Height:      48,
		Format:      "png",
		Timestamp:   "2026-01-02T00:00:00Z",
		Status:      domain.StatusRegistered,
	}
}

func TestStore_Migrations(t *testing.T) {
	t.Run("reopening an existing database is safe", func(t *testing.T) {
		dir := t.TempDir()

		first, err := NewStore(dir)
		require.NoError(t, err)
		_, err = first.Ledger().Insert(context.Background(), testRecord("a", 0x1))
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second, err := NewStore(dir)
		require.NoError(t, err)
		defer second.Close()

		all, err := second.Ledger().All(context.Background())
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("insert and read back a full record", func(t *testing.T) {
		ledger := newTestStore(t).Ledger()
		want := testRecord("art-1", 0xDEADBEEF)

		id, err := ledger.Insert(ctx, want)
		require.NoError(t, err)
		assert.Equal(t, "art-1", id)

		matches, err := ledger.FindByFingerprint(ctx, 0xDEADBEEF)
		require.NoError(t, err)
		require.Len(t, matches, 1)

		got := matches[0]
		assert.Positive(t, got.Seq)
		got.Seq = want.Seq
		assert.Equal(t, want, got)
	})

	t.Run("sequence numbers increase with insertion order", func(t *testing.T) {
		ledger := newTestStore(t).Ledger()

		_, err := ledger.Insert(ctx, testRecord("a", 0x1))
		require.NoError(t, err)
		_, err = ledger.Insert(ctx, testRecord("b", 0x1))
		require.NoError(t, err)

		all, err := ledger.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Less(t, all[0].Seq, all[1].Seq)
	})

	t.Run("find matches fingerprints exactly", func(t *testing.T) {
		ledger := newTestStore(t).Ledger()
		_, err := ledger.Insert(ctx, testRecord("a", 0xAA))
		require.NoError(t, err)
		_, err = ledger.Insert(ctx, testRecord("b", 0xAB))
		require.NoError(t, err)

		matches, err := ledger.FindByFingerprint(ctx, 0xAA)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "a", matches[0].ArtifactID)

		none, err := ledger.FindByFingerprint(ctx, 0xFF)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("empty artifact ID is rejected", func(t *testing.T) {
		ledger := newTestStore(t).Ledger()

		_, err := ledger.Insert(ctx, domain.RegistrationRecord{Fingerprint: 0x1})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestJobQueue(t *testing.T) {
	ctx := context.Background()

	newQueue := func(t *testing.T, config QueueConfig) *jobQueue {
		t.Helper()
		return newTestStore(t).JobQueue(config).(*jobQueue)
	}

	t.Run("delivers enqueued jobs with IDs and counts", func(t *testing.T) {
		q := newQueue(t, QueueConfig{Visibility: time.Minute, MaxReceives: 5})
		require.NoError(t, q.Enqueue(ctx, domain.WatermarkJob{ArtifactID: "a-1", ObjectKey: "uploads/x.png", Fingerprint: 0xBEEF}))

		jobs, err := q.Receive(ctx, 10, 0)

		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.NotEmpty(t, jobs[0].ID)
		assert.Equal(t, "a-1", jobs[0].ArtifactID)
		assert.Equal(t, domain.Fingerprint(0xBEEF), jobs[0].Fingerprint)
		assert.Equal(t, 1, jobs[0].ReceiveCount)
	})

	t.Run("received job is invisible until its window lapses", func(t *testing.T) {
		q := newQueue(t, QueueConfig{Visibility: 50 * time.Millisecond, MaxReceives: 5})
		require.NoError(t, q.Enqueue(ctx, domain.WatermarkJob{ArtifactID: "a-1"}))

		first, err := q.Receive(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, first, 1)

		hidden, err := q.Receive(ctx, 1, 0)
		require.NoError(t, err)
		assert.Empty(t, hidden)

		redelivered, err := q.Receive(ctx, 1, time.Second)
		require.NoError(t, err)
		require.Len(t, redelivered, 1)
		assert.Equal(t, 2, redelivered[0].ReceiveCount)
	})

	t.Run("acknowledged jobs are gone for good", func(t *testing.T) {
		q := newQueue(t, QueueConfig{Visibility: 20 * time.Millisecond, MaxReceives: 5})
		require.NoError(t, q.Enqueue(ctx, domain.WatermarkJob{ArtifactID: "a-1"}))

		jobs, err := q.Receive(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		require.NoError(t, q.Acknowledge(ctx, jobs[0]))

		later, err := q.Receive(ctx, 1, 100*time.Millisecond)
		require.NoError(t, err)
		assert.Empty(t, later)

		pending, err := q.Pending(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, pending)

		// Late duplicate acknowledge is a no-op.
		assert.NoError(t, q.Acknowledge(ctx, jobs[0]))
	})

	t.Run("jobs over their delivery budget move to the dead letter list", func(t *testing.T) {
		q := newQueue(t, QueueConfig{Visibility: time.Millisecond, MaxReceives: 2})
		require.NoError(t, q.Enqueue(ctx, domain.WatermarkJob{ArtifactID: "poison", ObjectKey: "uploads/junk.png"}))

		for i := 0; i < 2; i++ {
			jobs, err := q.Receive(ctx, 1, time.Second)
			require.NoError(t, err)
			require.Len(t, jobs, 1, "delivery %d", i+1)
		}

		jobs, err := q.Receive(ctx, 1, 100*time.Millisecond)
		require.NoError(t, err)
		assert.Empty(t, jobs)

		dead, err := q.DeadLetters(ctx)
		require.NoError(t, err)
		require.Len(t, dead, 1)
		assert.Equal(t, "poison", dead[0].ArtifactID)

		pending, err := q.Pending(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, pending)
	})

	t.Run("respects context cancellation while waiting", func(t *testing.T) {
		q := newQueue(t, QueueConfig{Visibility: time.Minute, MaxReceives: 5})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := q.Receive(cancelled, 1, time.Minute)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
