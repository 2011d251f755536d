package driven

import "context"

// BlobStore persists opaque image bytes by key. Backed by the local
// filesystem in this repo; the interface matches an object store's
// get/put-by-key surface so a cloud adapter can slot in unchanged.
//
// Per-key overwrite semantics are last-writer-wins. That is acceptable
// because watermark re-embeds with the same payload are idempotent.
type BlobStore interface {
	// Get returns the bytes stored under key.
	// Returns domain.ErrNotFound if no object exists.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, overwriting any existing object.
	// Returns an error wrapping domain.ErrTransientIO on I/O failure.
	Put(ctx context.Context, key string, data []byte, contentType string) error
}
