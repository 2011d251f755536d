package driven

import (
	"context"
	"time"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

// JobQueue delivers watermarking jobs with at-least-once semantics.
// A received job becomes invisible to other consumers for a visibility
// window; if it is not acknowledged within that window it is redelivered
// with an incremented receive count. Jobs whose receive count exceeds
// the queue's configured maximum are dead-lettered instead of
// redelivered forever.
type JobQueue interface {
	// Enqueue makes a job available for delivery.
	Enqueue(ctx context.Context, job domain.WatermarkJob) error

	// Receive returns up to maxItems currently-visible jobs, waiting up
	// to wait for at least one to become available. An empty result
	// after the wait is not an error. Each returned job carries a
	// delivery ID and its receive count.
	Receive(ctx context.Context, maxItems int, wait time.Duration) ([]domain.WatermarkJob, error)

	// Acknowledge removes a delivered job permanently. Acknowledging a
	// job that was already removed (for example by a racing consumer)
	// is a no-op, not an error.
	Acknowledge(ctx context.Context, job domain.WatermarkJob) error

	// DeadLetters returns jobs that exhausted their redelivery budget.
	DeadLetters(ctx context.Context) ([]domain.WatermarkJob, error)
}
