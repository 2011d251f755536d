// Package fs implements the blob store port on the local filesystem.
// Keys map to paths under a root directory, so "uploads/a.png" becomes
// <root>/uploads/a.png. Writes go to a temp file first and are renamed
// into place, so readers never observe a partially written object.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore stores objects as files under a root directory.
type BlobStore struct {
	root string
}

// NewBlobStore creates the root directory if needed and returns a store.
func NewBlobStore(root string) (*BlobStore, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty blob root", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("creating blob root: %w", err)
	}
	return &BlobStore{root: root}, nil
}

// Get returns the bytes stored under key.
func (s *BlobStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("blob %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading blob %s: %w", key, errTransient(err))
	}
	return data, nil
}

// Put stores data under key, overwriting any existing object. The
// contentType is not persisted; the filesystem carries no metadata.
func (s *BlobStore) Put(_ context.Context, key string, data []byte, _ string) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating blob directory: %w", errTransient(err))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", errTransient(err))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing blob %s: %w", key, errTransient(err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing blob %s: %w", key, errTransient(err))
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing blob %s: %w", key, errTransient(err))
	}
	return nil
}

// keyPath maps a key to a path under the root, rejecting keys that
// would escape it.
func (s *BlobStore) keyPath(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: invalid blob key %q", domain.ErrInvalidInput, key)
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: blob key %q escapes the root", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.root, clean), nil
}

func errTransient(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrTransientIO, err)
}
