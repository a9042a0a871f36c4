package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// NetworkID is the normalized network name used to join records across sources.
// It is trimmed but keeps its case.
type NetworkID string

var (
	// ErrEmptyNetworkID is returned for names that are empty after trimming
	ErrEmptyNetworkID = errors.New("network id is empty")
	// ErrInvalidNetworkID is returned for names containing control characters
	ErrInvalidNetworkID = errors.New("network id contains control characters")
)

// NewNetworkID validates and normalizes a raw network name
func NewNetworkID(raw string) (NetworkID, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyNetworkID
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidNetworkID, name)
		}
	}
	return NetworkID(name), nil
}

func (id NetworkID) String() string {
	return string(id)
}

// PartialNetworkRecord is a single source's, possibly incomplete, description of one
// network. Nil fields were not reported by the source.
type PartialNetworkRecord struct {
	ID     NetworkID `json:"id"`
	Source SourceTag `json:"source"`

	SignalDBM   *int     `json:"signal_dbm,omitempty"`
	NoiseDBM    *int     `json:"noise_dbm,omitempty"`
	Channel     *int     `json:"channel,omitempty"`
	ChannelSpec *string  `json:"channel_spec,omitempty"`
	Security    *string  `json:"security,omitempty"`
	BSSID       *string  `json:"bssid,omitempty"`
	TxRateMbps  *float64 `json:"tx_rate_mbps,omitempty"`
	MaxRateMbps *float64 `json:"max_rate_mbps,omitempty"`
	Saved       *bool    `json:"saved,omitempty"`
	Connected   *bool    `json:"connected,omitempty"`
}

// Ptr returns a pointer to v. Parsers use it to fill optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// Field is a merged value together with the source that supplied it
type Field[T any] struct {
	Value  T         `json:"value"`
	Source SourceTag `json:"source"`
}

// NetworkRecord is the reconciled view of one network. It is only created by the
// reconciliation engine and never modified afterwards.
type NetworkRecord struct {
	ID NetworkID `json:"id"`

	SignalDBM   *Field[int]     `json:"signal_dbm,omitempty"`
	NoiseDBM    *Field[int]     `json:"noise_dbm,omitempty"`
	Channel     *Field[int]     `json:"channel,omitempty"`
	ChannelSpec *Field[string]  `json:"channel_spec,omitempty"`
	Security    *Field[string]  `json:"security,omitempty"`
	BSSID       *Field[string]  `json:"bssid,omitempty"`
	TxRateMbps  *Field[float64] `json:"tx_rate_mbps,omitempty"`
	MaxRateMbps *Field[float64] `json:"max_rate_mbps,omitempty"`
	Saved       *Field[bool]    `json:"saved,omitempty"`
	Connected   *Field[bool]    `json:"connected,omitempty"`

	// Sources lists every source that reported the network, in priority order
	Sources []SourceTag `json:"sources"`
}

// IsSaved returns true only if a source positively reported the network as saved
func (r NetworkRecord) IsSaved() bool {
	return r.Saved != nil && r.Saved.Value
}

// IsConnected returns true only if a source positively reported the association
func (r NetworkRecord) IsConnected() bool {
	return r.Connected != nil && r.Connected.Value
}

// Clone returns a deep copy so callers cannot alias a stored record
func (r NetworkRecord) Clone() NetworkRecord {
	out := r
	out.SignalDBM = cloneField(r.SignalDBM)
	out.NoiseDBM = cloneField(r.NoiseDBM)
	out.Channel = cloneField(r.Channel)
	out.ChannelSpec = cloneField(r.ChannelSpec)
	out.Security = cloneField(r.Security)
	out.BSSID = cloneField(r.BSSID)
	out.TxRateMbps = cloneField(r.TxRateMbps)
	out.MaxRateMbps = cloneField(r.MaxRateMbps)
	out.Saved = cloneField(r.Saved)
	out.Connected = cloneField(r.Connected)
	if r.Sources != nil {
		out.Sources = append([]SourceTag(nil), r.Sources...)
	}
	return out
}

func cloneField[T any](f *Field[T]) *Field[T] {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
