package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driven"
)

// Ensure JobQueue implements the interface.
var _ driven.JobQueue = (*JobQueue)(nil)

// pollInterval is how often Receive re-checks for visible jobs while
// waiting.
const pollInterval = 10 * time.Millisecond

// QueueConfig tunes the in-memory queue's delivery semantics.
type QueueConfig struct {
	// Visibility is how long a received job stays hidden from other
	// consumers before redelivery.
	Visibility time.Duration

	// MaxReceives is the delivery budget before a job is dead-lettered.
	MaxReceives int
}

// DefaultQueueConfig returns the semantics used outside tests.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		Visibility:  30 * time.Second,
		MaxReceives: 5,
	}
}

type queuedJob struct {
	job       domain.WatermarkJob
	visibleAt time.Time
	receives  int
}

// JobQueue is an in-memory at-least-once job queue with visibility
// windows and dead-lettering. Multiple consumers may share one queue;
// a job received by one consumer is hidden from the others until its
// visibility window lapses.
type JobQueue struct {
	mu     sync.Mutex
	items  []*queuedJob
	dead   []domain.WatermarkJob
	config QueueConfig
	nextID int64
}

// NewJobQueue creates an empty queue.
func NewJobQueue(config QueueConfig) *JobQueue {
	if config.Visibility <= 0 {
		config.Visibility = DefaultQueueConfig().Visibility
	}
	if config.MaxReceives <= 0 {
		config.MaxReceives = DefaultQueueConfig().MaxReceives
	}
	return &JobQueue{config: config}
}

// Enqueue makes a job available for delivery.
func (q *JobQueue) Enqueue(_ context.Context, job domain.WatermarkJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	job.ID = "job-" + strconv.FormatInt(q.nextID, 10)
	q.items = append(q.items, &queuedJob{job: job, visibleAt: time.Now()})
	return nil
}

// Receive returns up to maxItems visible jobs, waiting up to wait for
// at least one. Jobs over their delivery budget are dead-lettered
// instead of returned.
func (q *JobQueue) Receive(ctx context.Context, maxItems int, wait time.Duration) ([]domain.WatermarkJob, error) {
	deadline := time.Now().Add(wait)
	for {
		if jobs := q.claim(maxItems); len(jobs) > 0 {
			return jobs, nil
		}
		if time.Now().After(deadline) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// claim atomically marks up to maxItems visible jobs as in flight.
func (q *JobQueue) claim(maxItems int) []domain.WatermarkJob {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	var claimed []domain.WatermarkJob
	remaining := q.items[:0]
	for _, item := range q.items {
		if len(claimed) >= maxItems || now.Before(item.visibleAt) {
			remaining = append(remaining, item)
			continue
		}
		item.receives++
		if item.receives > q.config.MaxReceives {
			q.dead = append(q.dead, item.job)
			continue
		}
		item.visibleAt = now.Add(q.config.Visibility)
		delivered := item.job
		delivered.ReceiveCount = item.receives
		claimed = append(claimed, delivered)
		remaining = append(remaining, item)
	}
	q.items = remaining
	return claimed
}

// Acknowledge removes a delivered job. Unknown IDs are a no-op: a
// racing consumer may have acknowledged first.
func (q *JobQueue) Acknowledge(_ context.Context, job domain.WatermarkJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, item := range q.items {
		if item.job.ID == job.ID {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// DeadLetters returns jobs that exhausted their delivery budget.
func (q *JobQueue) DeadLetters(_ context.Context) ([]domain.WatermarkJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]domain.WatermarkJob, len(q.dead))
	copy(out, q.dead)
	return out, nil
}

// Pending returns the number of unacknowledged jobs. Test helper.
func (q *JobQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
