// Package memory provides in-memory implementations of the driven
// storage ports: blob store, ledger, and job queue.
//
// They back the test suites and the zero-configuration development
// mode. The queue models real at-least-once semantics (visibility
// windows, receive counting, dead-lettering) so worker behaviour under
// redelivery can be exercised without external infrastructure.
package memory
