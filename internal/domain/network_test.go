package domain

import (
	"errors"
	"testing"
)

func TestNewNetworkID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    NetworkID
		wantErr error
	}{
		{"plain", "HomeNet", "HomeNet", nil},
		{"trims whitespace", "  Cafe Guest \t", "Cafe Guest", nil},
		{"keeps case", "hOmEnEt", "hOmEnEt", nil},
		{"unicode", "Café 5G", "Café 5G", nil},
		{"empty", "", "", ErrEmptyNetworkID},
		{"only spaces", "   ", "", ErrEmptyNetworkID},
		{"embedded control", "Home\x00Net", "", ErrInvalidNetworkID},
		{"embedded newline", "Home\nNet", "", ErrInvalidNetworkID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewNetworkID(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewNetworkID(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewNetworkID(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NewNetworkID(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSourceRank(t *testing.T) {
	if SourceConnection.Rank() >= SourceScanList.Rank() {
		t.Error("connection should outrank scan_list")
	}
	if SourceScanList.Rank() >= SourcePreferred.Rank() {
		t.Error("scan_list should outrank preferred")
	}
	if SourcePreferred.Rank() >= SourceCredential.Rank() {
		t.Error("preferred should outrank credential")
	}
	if SourceTag("bogus").Valid() {
		t.Error("unknown source should not be valid")
	}
}

func TestNetworkRecordFlags(t *testing.T) {
	var r NetworkRecord
	if r.IsSaved() || r.IsConnected() {
		t.Error("unset flags should read as false")
	}

	r.Saved = &Field[bool]{Value: true, Source: SourcePreferred}
	if !r.IsSaved() {
		t.Error("expected saved")
	}

	clone := r.Clone()
	clone.Saved.Value = false
	if !r.IsSaved() {
		t.Error("clone must not alias the original")
	}
}
