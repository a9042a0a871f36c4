// Package domain defines the core types of the wifimon network survey service.
//
// Nothing in this package talks to the operating system. The types describe what
// the sources report and what the reconciliation engine produces.
//
// # Records
//
// PartialNetworkRecord is what one source says about one network. Every field is
// optional; a nil pointer means the source did not report it.
//
// NetworkRecord is the merged view of all partial records that share a NetworkID.
// Each field carries the SourceTag that supplied it (its provenance). Fields that no
// source reported stay nil rather than being defaulted.
//
// ScanResult is one generation of records together with the per-source failures and
// parse warnings of the scan that produced it. A new scan produces a new ScanResult;
// existing results are never modified.
//
// # Secrets
//
// Stored WiFi passwords are never part of a NetworkRecord. They are fetched on demand
// and returned as a Secret, which redacts itself when formatted, logged or encoded.
//
// # Errors
//
// ExecutionError, ParseError, NotFoundError and CancellationError are the error kinds
// shared by the runner, parser, adapter and service packages.
package domain
