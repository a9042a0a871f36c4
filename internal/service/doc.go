// Package service implements the scan pipeline and the query API of wifimon.
//
// # Reconciliation
//
// Merge combines the partial records reported by every source into one
// NetworkRecord per network. For each field the highest priority source that
// reported a value wins and is recorded as the field's provenance. The output is
// sorted by network ID and does not depend on the order of its input.
//
// # Services
//
// ScanService runs the registered sources, merges their output and keeps the
// latest ScanResult for queries. Results are immutable and swapped in atomically,
// so readers never observe a half-built scan.
//
// CredentialService reads stored passwords on demand. Passwords never enter a
// NetworkRecord; every access is audited.
//
// # Event System
//
// ScanService publishes EventScanCompleted via EventBus when a scan finishes.
// The HTTP layer relays these events to clients via Server-Sent Events (SSE).
package service
