package repository

import (
	"context"
	"time"

	"wifimon/internal/domain"
)

// CredentialAccessEntry is one audited credential lookup
type CredentialAccessEntry struct {
	Network     domain.NetworkID `json:"network"`
	Fingerprint string           `json:"fingerprint,omitempty"`
	Found       bool             `json:"found"`
	AccessedAt  time.Time        `json:"accessed_at"`
}

// HistoryRepository stores completed scans and the credential audit trail
type HistoryRepository interface {
	// Scan history
	SaveScan(ctx context.Context, result *domain.ScanResult) error
	ListScans(ctx context.Context, limit int) ([]domain.ScanSummary, error)
	GetScanRecords(ctx context.Context, id string) ([]domain.NetworkRecord, error)
	Prune(ctx context.Context, keep int) (int64, error)

	// Credential audit
	RecordCredentialAccess(ctx context.Context, id domain.NetworkID, fingerprint string, found bool) error
	ListCredentialAccess(ctx context.Context, limit int) ([]CredentialAccessEntry, error)

	// Close releases resources
	Close() error
}
