package domain

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"
)

const redacted = "[REDACTED]"

// Secret holds a stored network password.
// It redacts itself in every formatted, logged or encoded form; call Reveal to read it.
type Secret struct {
	network NetworkID
	value   string
}

// NewSecret wraps credential material for a network
func NewSecret(id NetworkID, value string) Secret {
	return Secret{network: id, value: value}
}

// Network returns the network the secret belongs to
func (s Secret) Network() NetworkID { return s.network }

// Reveal returns the plaintext secret
func (s Secret) Reveal() string { return s.value }

// Empty returns true when no material is held
func (s Secret) Empty() bool { return s.value == "" }

// Fingerprint returns a short BLAKE2b digest of the secret, keyed by the network ID,
// that can be written to audit logs without disclosing the value
func (s Secret) Fingerprint() string {
	if s.value == "" {
		return ""
	}
	h, err := blake2b.New256([]byte(s.network))
	if err != nil {
		// keys longer than 64 bytes are rejected; fall back to an unkeyed digest
		sum := blake2b.Sum256([]byte(string(s.network) + "\x00" + s.value))
		return hex.EncodeToString(sum[:8])
	}
	h.Write([]byte(s.value))
	return hex.EncodeToString(h.Sum(nil)[:8])
}

func (s Secret) String() string { return redacted }

func (s Secret) GoString() string { return "domain.Secret{" + redacted + "}" }

// MarshalText implements encoding.TextMarshaler
func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// MarshalJSON implements json.Marshaler
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }
