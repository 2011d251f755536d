package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driven"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driving"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/imaging"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/logger"
)

// Ensure Worker implements the interface.
var _ driving.Worker = (*Worker)(nil)

// watermarkedPrefix is the blob namespace for processed artifacts.
const watermarkedPrefix = "watermarked/"

// WorkerConfig tunes the polling loop.
type WorkerConfig struct {
	// BatchSize is the maximum jobs fetched per poll.
	BatchSize int

	// ReceiveWait is how long a single Receive call may wait for jobs.
	ReceiveWait time.Duration

	// PollsPerSecond bounds the queue polling rate.
	PollsPerSecond float64
}

// DefaultWorkerConfig returns the tuning used by the CLI.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		BatchSize:      5,
		ReceiveWait:    2 * time.Second,
		PollsPerSecond: 2,
	}
}

// Worker consumes watermarking jobs from the queue: download the source
// image, embed the record's identifier, upload the result, and only
// then acknowledge.
//
// Delivery is at-least-once, so a crash after upload but before
// acknowledgment causes a harmless duplicate re-embed: the same payload
// into the same source bytes yields byte-identical output, and the blob
// store's per-key overwrite is last-writer-wins. Workers share no
// in-process state; any number of instances may race on one queue.
type Worker struct {
	blobs   driven.BlobStore
	queue   driven.JobQueue
	codec   *WatermarkCodec
	config  WorkerConfig
	limiter *rate.Limiter

	mu     sync.Mutex
	status driving.WorkerStatus
}

// NewWorker creates a worker with explicit dependencies.
func NewWorker(blobs driven.BlobStore, queue driven.JobQueue, codec *WatermarkCodec, config WorkerConfig) *Worker {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultWorkerConfig().BatchSize
	}
	if config.ReceiveWait <= 0 {
		config.ReceiveWait = DefaultWorkerConfig().ReceiveWait
	}
	if config.PollsPerSecond <= 0 {
		config.PollsPerSecond = DefaultWorkerConfig().PollsPerSecond
	}
	return &Worker{
		blobs:   blobs,
		queue:   queue,
		codec:   codec,
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.PollsPerSecond), 1),
	}
}

// Run polls the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := w.limiter.Wait(ctx); err != nil {
			return err
		}

		jobs, err := w.queue.Receive(ctx, w.config.BatchSize, w.config.ReceiveWait)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			// Transient queue trouble: log and poll again.
			logger.Warn("Receive failed: %v", err)
			continue
		}

		for _, job := range jobs {
			if err := w.Process(ctx, job); err != nil {
				if errors.Is(err, domain.ErrDecode) || errors.Is(err, domain.ErrPayloadTooLarge) {
					// Poison job: abandon without acknowledging and let
					// the queue's redelivery/dead-letter policy decide.
					logger.Warn("Abandoning poison job %s (%s): %v", job.ID, job.ObjectKey, err)
					w.count(func(s *driving.WorkerStatus) { s.Poisoned++ })
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("Job %s failed, leaving for redelivery: %v", job.ID, err)
				continue
			}
			w.count(func(s *driving.WorkerStatus) { s.Processed++ })
		}
	}
}

// Process handles one job end to end. Exported so tests and single-shot
// tools can drive the worker without the polling loop.
func (w *Worker) Process(ctx context.Context, job domain.WatermarkJob) error {
	// 1. FETCH source bytes
	data, err := w.blobs.Get(ctx, job.ObjectKey)
	if err != nil {
		return fmt.Errorf("get source %s: %w", job.ObjectKey, err)
	}

	// 2. DECODE
	buf, _, err := imaging.Decode(data)
	if err != nil {
		return fmt.Errorf("decode source %s: %w", job.ObjectKey, err)
	}

	// 3. EMBED the record identifier
	marked, err := w.codec.Embed(buf, []byte(job.ArtifactID))
	if err != nil {
		return fmt.Errorf("embed %s: %w", job.ArtifactID, err)
	}

	// 4. UPLOAD under the derived key
	out, err := imaging.EncodePNG(marked)
	if err != nil {
		return fmt.Errorf("encode watermarked image: %w", err)
	}
	outKey := WatermarkedKey(job.ObjectKey)
	if err := w.blobs.Put(ctx, outKey, out, "image/png"); err != nil {
		return fmt.Errorf("put %s: %w", outKey, err)
	}

	// 5. ACKNOWLEDGE only after the upload succeeded
	if err := w.queue.Acknowledge(ctx, job); err != nil {
		return fmt.Errorf("acknowledge %s: %w", job.ID, err)
	}

	logger.Info("Watermarked %s -> %s", job.ObjectKey, outKey)
	return nil
}

// Status returns current progress counters.
func (w *Worker) Status() driving.WorkerStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *Worker) count(update func(*driving.WorkerStatus)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	update(&w.status)
}

// WatermarkedKey relocates an upload key into the processed namespace,
// normalising the extension to the lossless publish format:
// uploads/abc.jpg -> watermarked/abc.png.
func WatermarkedKey(objectKey string) string {
	base := path.Base(objectKey)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return watermarkedPrefix + base + ".png"
}

// Fleet runs n workers concurrently against the same queue. Each worker
// is an independent consumer; coordination happens entirely through the
// queue's visibility semantics.
func Fleet(ctx context.Context, n int, build func() *Worker) error {
	if n < 1 {
		n = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		w := build()
		g.Go(func() error {
			return w.Run(ctx)
		})
	}
	return g.Wait()
}
