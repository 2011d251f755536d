package driving

import "context"

// WorkerStatus is a snapshot of a running worker's progress counters.
type WorkerStatus struct {
	// Processed is the number of jobs embedded and acknowledged.
	Processed int

	// Poisoned is the number of jobs abandoned to queue redelivery.
	Poisoned int
}

// Worker drains the watermarking queue.
type Worker interface {
	// Run polls the queue and processes jobs until ctx is cancelled.
	// Returns ctx.Err() on cancellation.
	Run(ctx context.Context) error

	// Status returns current progress counters.
	Status() WorkerStatus
}
