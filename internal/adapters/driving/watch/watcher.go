// Package watch registers images dropped into a local directory. It is
// the filesystem analogue of an object-store upload notification: a
// file appearing under the watched directory triggers registration.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driving"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/logger"
)

// Watcher observes a directory and registers image files that appear
// in it. Writes are debounced so a file still being copied is only
// registered once it settles.
type Watcher struct {
	registrar driving.Registrar
	debounce  time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher. The debounce is how long a file must
// stay quiet before it is picked up.
func NewWatcher(registrar driving.Registrar, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{
		registrar: registrar,
		debounce:  debounce,
		pending:   make(map[string]*time.Timer),
	}
}

// Run watches dir until ctx is cancelled. The directory is created if
// it does not exist.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating watch directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("Watching %s for new images", dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isImagePath(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// schedule (re)arms the debounce timer for path. Every further write
// pushes registration back until the file goes quiet.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.register(ctx, path)
	})
}

func (w *Watcher) register(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}

	record, err := w.registrar.RegisterBytes(ctx, filepath.Base(path), data)
	if err != nil {
		logger.Warn("Registering %s: %v", path, err)
		return
	}
	logger.Info("Registered %s as %s", path, record.ArtifactID)
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// isImagePath filters by extension; everything else in the drop
// directory is ignored.
func isImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}
