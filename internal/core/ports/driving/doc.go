// Package driving defines the inbound ports of the hexagonal
// architecture: the interfaces through which outer adapters (CLI, HTTP
// shim, ingest watcher) invoke the core services.
package driving
