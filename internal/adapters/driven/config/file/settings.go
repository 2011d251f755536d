package file

import (
	"time"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driven"
)

// Configuration keys understood by the service.
const (
	KeyDataDir        = "service.data_dir"
	KeyBlobDir        = "service.blob_dir"
	KeyHTTPAddr       = "service.http_addr"
	KeyWorkers        = "service.workers"
	KeyBatchSize      = "worker.batch_size"
	KeyPollsPerSecond = "worker.polls_per_second"
	KeyVisibilitySecs = "queue.visibility_seconds"
	KeyMaxReceives    = "queue.max_receives"
	KeyWatchDir       = "watch.dir"
	KeyWatchDebounce  = "watch.debounce_ms"
)

// Settings resolves the service's runtime options from a config store,
// applying defaults for unset keys. A zero config file yields a fully
// working local setup.
type Settings struct {
	store driven.ConfigStore
}

// NewSettings wraps a config store.
func NewSettings(store driven.ConfigStore) *Settings {
	return &Settings{store: store}
}

// DataDir is where the SQLite ledger lives. Empty means the store's
// own default under the user's home directory.
func (s *Settings) DataDir() string {
	return s.store.GetString(KeyDataDir)
}

// BlobDir is the blob store root. Empty means "blobs" under the
// current working directory.
func (s *Settings) BlobDir() string {
	if dir := s.store.GetString(KeyBlobDir); dir != "" {
		return dir
	}
	return "blobs"
}

// HTTPAddr is the listen address for the HTTP API.
func (s *Settings) HTTPAddr() string {
	if addr := s.store.GetString(KeyHTTPAddr); addr != "" {
		return addr
	}
	return ":8085"
}

// Workers is the number of concurrent queue consumers.
func (s *Settings) Workers() int {
	return intOr(s.store, KeyWorkers, 2)
}

// BatchSize is the maximum jobs fetched per queue poll.
func (s *Settings) BatchSize() int {
	return intOr(s.store, KeyBatchSize, 5)
}

// PollsPerSecond bounds each worker's queue polling rate.
func (s *Settings) PollsPerSecond() float64 {
	return float64(intOr(s.store, KeyPollsPerSecond, 2))
}

// Visibility is the queue's redelivery window.
func (s *Settings) Visibility() time.Duration {
	return time.Duration(intOr(s.store, KeyVisibilitySecs, 30)) * time.Second
}

// MaxReceives is the queue's per-job delivery budget.
func (s *Settings) MaxReceives() int {
	return intOr(s.store, KeyMaxReceives, 5)
}

// WatchDir is the directory the ingest watcher observes.
func (s *Settings) WatchDir() string {
	if dir := s.store.GetString(KeyWatchDir); dir != "" {
		return dir
	}
	return "ingest"
}

// WatchDebounce is how long the watcher waits for a file to settle
// before registering it.
func (s *Settings) WatchDebounce() time.Duration {
	return time.Duration(intOr(s.store, KeyWatchDebounce, 250)) * time.Millisecond
}

func intOr(store driven.ConfigStore, key string, fallback int) int {
	if _, ok := store.Get(key); !ok {
		return fallback
	}
	if v := store.GetInt(key); v > 0 {
		return v
	}
	return fallback
}
