package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"wifimon/internal/domain"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testScan(id string, offset time.Duration) *domain.ScanResult {
	started := baseTime.Add(offset)
	records := []domain.NetworkRecord{
		{
			ID:        "NetA",
			SignalDBM: &domain.Field[int]{Value: -50, Source: domain.SourceScanList},
			Saved:     &domain.Field[bool]{Value: true, Source: domain.SourcePreferred},
			Sources:   []domain.SourceTag{domain.SourceScanList, domain.SourcePreferred},
		},
		{
			ID:       "NetB",
			Security: &domain.Field[string]{Value: "Open", Source: domain.SourceScanList},
			Sources:  []domain.SourceTag{domain.SourceScanList},
		},
	}
	failures := map[domain.SourceTag]error{
		domain.SourceConnection: &domain.ExitError{Command: "airport -I", Code: 1},
	}
	return domain.NewScanResult(id, started, started.Add(2*time.Second), records, failures, nil)
}

// ============================================================================
// Scan History Tests
// ============================================================================

func TestSaveAndListScans(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.SaveScan(ctx, testScan("first", 0)))
	assertNoError(t, repo.SaveScan(ctx, testScan("second", time.Minute)))
	// saving twice is a no-op
	assertNoError(t, repo.SaveScan(ctx, testScan("second", time.Minute)))

	scans, err := repo.ListScans(ctx, 0)
	assertNoError(t, err)
	assertEqual(t, 2, len(scans))
	assertEqual(t, "second", scans[0].ID)
	assertEqual(t, "first", scans[1].ID)

	s := scans[1]
	assertEqual(t, 2, s.Networks)
	assertEqual(t, baseTime, s.StartedAt)
	assertEqual(t, baseTime.Add(2*time.Second), s.FinishedAt)
	assertEqual(t, map[domain.SourceTag]string{domain.SourceConnection: "airport -I: exit status 1"}, s.Failures)

	limited, err := repo.ListScans(ctx, 1)
	assertNoError(t, err)
	assertEqual(t, 1, len(limited))
}

func TestGetScanRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	scan := testScan("abc", 0)
	assertNoError(t, repo.SaveScan(ctx, scan))

	records, err := repo.GetScanRecords(ctx, "abc")
	assertNoError(t, err)
	assertEqual(t, scan.Records(), records)

	_, err = repo.GetScanRecords(ctx, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c", "d"} {
		assertNoError(t, repo.SaveScan(ctx, testScan(id, time.Duration(i)*time.Minute)))
	}

	deleted, err := repo.Prune(ctx, 2)
	assertNoError(t, err)
	assertEqual(t, int64(2), deleted)

	scans, err := repo.ListScans(ctx, 0)
	assertNoError(t, err)
	assertEqual(t, 2, len(scans))
	assertEqual(t, "d", scans[0].ID)
	assertEqual(t, "c", scans[1].ID)
}

// ============================================================================
// Credential Audit Tests
// ============================================================================

func TestCredentialAccess(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tick := baseTime
	repo.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	secret := domain.NewSecret("NetA", "hunter22")
	assertNoError(t, repo.RecordCredentialAccess(ctx, "NetA", secret.Fingerprint(), true))
	assertNoError(t, repo.RecordCredentialAccess(ctx, "NetC", "", false))

	entries, err := repo.ListCredentialAccess(ctx, 10)
	assertNoError(t, err)
	assertEqual(t, 2, len(entries))

	assertEqual(t, domain.NetworkID("NetC"), entries[0].Network)
	assertEqual(t, false, entries[0].Found)
	assertEqual(t, "", entries[0].Fingerprint)

	assertEqual(t, domain.NetworkID("NetA"), entries[1].Network)
	assertEqual(t, true, entries[1].Found)
	assertEqual(t, secret.Fingerprint(), entries[1].Fingerprint)
	assertEqual(t, baseTime.Add(time.Second), entries[1].AccessedAt)
}
