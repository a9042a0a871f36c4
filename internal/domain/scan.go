package domain

import (
	"encoding/json"
	"reflect"
	"sort"
	"time"
)

// ScanResult is one immutable generation of merged network records.
// Use the accessors; they return copies.
type ScanResult struct {
	id         string
	startedAt  time.Time
	finishedAt time.Time
	records    []NetworkRecord
	failures   map[SourceTag]error
	warnings   []ParseError
}

// NewScanResult builds a result. Records are copied and sorted by ID.
func NewScanResult(id string, startedAt, finishedAt time.Time, records []NetworkRecord, failures map[SourceTag]error, warnings []ParseError) *ScanResult {
	recs := make([]NetworkRecord, len(records))
	for i, r := range records {
		recs[i] = r.Clone()
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })

	fails := make(map[SourceTag]error, len(failures))
	for k, v := range failures {
		fails[k] = v
	}

	return &ScanResult{
		id:         id,
		startedAt:  startedAt,
		finishedAt: finishedAt,
		records:    recs,
		failures:   fails,
		warnings:   append([]ParseError(nil), warnings...),
	}
}

// ID returns the unique scan identifier
func (s *ScanResult) ID() string { return s.id }

// StartedAt returns when the scan began
func (s *ScanResult) StartedAt() time.Time { return s.startedAt }

// FinishedAt returns when reconciliation completed
func (s *ScanResult) FinishedAt() time.Time { return s.finishedAt }

// Len returns the number of networks in the scan
func (s *ScanResult) Len() int { return len(s.records) }

// Records returns a copy of the records, sorted by ID
func (s *ScanResult) Records() []NetworkRecord {
	out := make([]NetworkRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// Record looks up one network by ID
func (s *ScanResult) Record(id NetworkID) (NetworkRecord, bool) {
	i := sort.Search(len(s.records), func(i int) bool { return s.records[i].ID >= id })
	if i < len(s.records) && s.records[i].ID == id {
		return s.records[i].Clone(), true
	}
	return NetworkRecord{}, false
}

// Failures returns a copy of the per-source failure annotations
func (s *ScanResult) Failures() map[SourceTag]error {
	out := make(map[SourceTag]error, len(s.failures))
	for k, v := range s.failures {
		out[k] = v
	}
	return out
}

// Failed reports whether the given source failed in this scan
func (s *ScanResult) Failed(source SourceTag) bool {
	_, ok := s.failures[source]
	return ok
}

// Warnings returns the rows skipped by parsers during this scan
func (s *ScanResult) Warnings() []ParseError {
	return append([]ParseError(nil), s.warnings...)
}

// Equal compares scan content. The scan ID and timestamps are ignored; failures
// compare by message.
func (s *ScanResult) Equal(other *ScanResult) bool {
	if s == nil || other == nil {
		return s == other
	}
	if !reflect.DeepEqual(s.records, other.records) {
		return false
	}
	if len(s.failures) != len(other.failures) {
		return false
	}
	for k, v := range s.failures {
		ov, ok := other.failures[k]
		if !ok || v.Error() != ov.Error() {
			return false
		}
	}
	return reflect.DeepEqual(s.warnings, other.warnings)
}

// ScanSummary is a compact, serializable view of a ScanResult
type ScanSummary struct {
	ID         string               `json:"id" yaml:"id"`
	StartedAt  time.Time            `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time            `json:"finished_at" yaml:"finished_at"`
	Networks   int                  `json:"networks" yaml:"networks"`
	Failures   map[SourceTag]string `json:"failures,omitempty" yaml:"failures,omitempty"`
	Warnings   int                  `json:"warnings" yaml:"warnings"`
}

// Summary returns the compact view of the scan
func (s *ScanResult) Summary() ScanSummary {
	sum := ScanSummary{
		ID:         s.id,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
		Networks:   len(s.records),
		Warnings:   len(s.warnings),
	}
	if len(s.failures) > 0 {
		sum.Failures = make(map[SourceTag]string, len(s.failures))
		for k, v := range s.failures {
			sum.Failures[k] = v.Error()
		}
	}
	return sum
}

// MarshalJSON encodes the summary together with the records
func (s *ScanResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ScanSummary
		Records      []NetworkRecord `json:"records"`
		WarningsList []ParseError    `json:"warning_details,omitempty"`
	}{
		ScanSummary:  s.Summary(),
		Records:      s.records,
		WarningsList: s.warnings,
	})
}
