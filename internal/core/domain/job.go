package domain

// WatermarkJob is a queued unit of watermarking work. The queue owns it
// until acknowledged; delivery is at-least-once, so processing must be
// idempotent (re-embedding the same payload into the same source bytes
// yields identical output).
type WatermarkJob struct {
	// ID is the queue-assigned receipt identifier. Empty until the job
	// has been received; used to acknowledge the delivery.
	ID string

	// ArtifactID is the registration record identifier to embed.
	ArtifactID string

	// ObjectKey is the blob store key of the source image.
	ObjectKey string

	// Fingerprint is the fingerprint recorded at registration. Carried
	// for logging and audit; the worker does not recompute it.
	Fingerprint Fingerprint

	// ReceiveCount is how many times the queue has delivered this job.
	ReceiveCount int
}
