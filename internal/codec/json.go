package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"wifimon/internal/domain"
)

// JSONCodec handles JSON export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Export exports a scan to JSON
func (c *JSONCodec) Export(result *domain.ScanResult, w io.Writer) error {
	return c.encode(result, w)
}

// ExportNetwork exports one network to JSON
func (c *JSONCodec) ExportNetwork(record domain.NetworkRecord, w io.Writer) error {
	return c.encode(record, w)
}

func (c *JSONCodec) encode(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
