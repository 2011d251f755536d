package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidImage indicates pixel data that cannot be decoded or has
	// zero area. Always fatal to the current request, never retried.
	ErrInvalidImage = errors.New("invalid image")

	// ErrPayloadTooLarge indicates the image has too few pixels to carry
	// the watermark payload plus terminator.
	ErrPayloadTooLarge = errors.New("payload too large for image")

	// ErrPayloadUnsafe indicates the payload contains the terminator bit
	// pattern at a byte boundary and would truncate on extraction.
	ErrPayloadUnsafe = errors.New("payload contains terminator sequence")

	// ErrDecode indicates image bytes that fail to parse as a supported
	// raster format. Jobs hitting this are poison: logged and abandoned,
	// left to the queue's own redelivery and dead-letter policy.
	ErrDecode = errors.New("undecodable image bytes")

	// ErrTransientIO indicates a blob store or queue access failure.
	// Retryable by the caller; the worker relies on queue redelivery
	// rather than retrying in-process.
	ErrTransientIO = errors.New("transient I/O failure")
)
