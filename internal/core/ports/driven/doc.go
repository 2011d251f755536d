// Package driven defines the outbound ports of the hexagonal
// architecture: the narrow interfaces through which the core consumes
// its external collaborators (blob store, ledger, job queue).
//
// The core never constructs these; concrete adapters are injected by
// the process entry point. Adapters live in internal/adapters/driven.
package driven
