// Package repository defines the persistence interfaces of the wifimon daemon.
//
// The scan core keeps its state in memory. The daemon optionally records every
// completed scan and every credential access in a history store so operators can
// review what was visible and when passwords were read.
//
// # SQLite Implementation
//
// The sqlite subpackage implements HistoryRepository on modernc.org/sqlite in WAL
// mode. The schema is migrated on open. Secrets are never stored; credential
// accesses keep only the secret fingerprint.
package repository
