package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wifimon/internal/domain"
	"wifimon/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.HistoryRepository using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.HistoryRepository = (*Repository)(nil)

// New creates a new SQLite repository. ":memory:" opens a private in-memory
// database.
func New(dbPath string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)
	if dbPath == ":memory:" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		networks INTEGER NOT NULL,
		warnings INTEGER NOT NULL DEFAULT 0,
		failures JSON,
		records JSON NOT NULL
	);

	CREATE TABLE IF NOT EXISTS credential_access (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		network TEXT NOT NULL,
		fingerprint TEXT,
		found INTEGER NOT NULL,
		accessed_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_started ON scans(started_at);
	CREATE INDEX IF NOT EXISTS idx_credential_access_network ON credential_access(network);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveScan stores a completed scan. Saving the same scan twice is a no-op.
func (r *Repository) SaveScan(ctx context.Context, result *domain.ScanResult) error {
	records, err := json.Marshal(result.Records())
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	summary := result.Summary()
	failures, err := marshalJSONField(summary.Failures)
	if err != nil {
		return fmt.Errorf("failed to marshal failures: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO scans (id, started_at, finished_at, networks, warnings, failures, records)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, summary.ID, timeToInt(summary.StartedAt), timeToInt(summary.FinishedAt),
		summary.Networks, summary.Warnings, failures, string(records))
	if err != nil {
		return fmt.Errorf("failed to insert scan: %w", err)
	}

	return nil
}

// ListScans returns the most recent scans first. A limit of zero or less
// returns every scan.
func (r *Repository) ListScans(ctx context.Context, limit int) ([]domain.ScanSummary, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, networks, warnings, failures
		FROM scans
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	scans := []domain.ScanSummary{}
	for rows.Next() {
		var (
			s                 domain.ScanSummary
			started, finished int64
			failures          sql.NullString
		)
		if err := rows.Scan(&s.ID, &started, &finished, &s.Networks, &s.Warnings, &failures); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.StartedAt = intToTime(started)
		s.FinishedAt = intToTime(finished)
		if err := unmarshalJSONField(failures, &s.Failures); err != nil {
			return nil, fmt.Errorf("failed to unmarshal failures of %s: %w", s.ID, err)
		}
		scans = append(scans, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scans: %w", err)
	}

	return scans, nil
}

// GetScanRecords returns the networks stored for a scan
func (r *Repository) GetScanRecords(ctx context.Context, id string) ([]domain.NetworkRecord, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT records FROM scans WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scan: %w", err)
	}

	var records []domain.NetworkRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	return records, nil
}

// Prune deletes all but the keep most recent scans and returns the number of
// deleted rows
func (r *Repository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM scans WHERE id NOT IN (
			SELECT id FROM scans ORDER BY started_at DESC, id LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune scans: %w", err)
	}
	return res.RowsAffected()
}

// RecordCredentialAccess appends an entry to the credential audit trail
func (r *Repository) RecordCredentialAccess(ctx context.Context, id domain.NetworkID, fingerprint string, found bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credential_access (network, fingerprint, found, accessed_at)
		VALUES (?, ?, ?, ?)
	`, string(id), stringToNull(fingerprint), boolToInt(found), timeToInt(r.now()))
	if err != nil {
		return fmt.Errorf("failed to record credential access: %w", err)
	}
	return nil
}

// ListCredentialAccess returns the most recent credential accesses first
func (r *Repository) ListCredentialAccess(ctx context.Context, limit int) ([]repository.CredentialAccessEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT network, fingerprint, found, accessed_at
		FROM credential_access
		ORDER BY accessed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query credential access: %w", err)
	}
	defer rows.Close()

	entries := []repository.CredentialAccessEntry{}
	for rows.Next() {
		var (
			network     string
			fingerprint sql.NullString
			found       sql.NullInt64
			accessed    int64
		)
		if err := rows.Scan(&network, &fingerprint, &found, &accessed); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		entries = append(entries, repository.CredentialAccessEntry{
			Network:     domain.NetworkID(network),
			Fingerprint: nullToString(fingerprint),
			Found:       nullToBool(found),
			AccessedAt:  intToTime(accessed),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credential access: %w", err)
	}

	return entries, nil
}
