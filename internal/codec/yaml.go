package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"wifimon/internal/domain"
)

// YAMLCodec handles YAML export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlScan represents the YAML structure for a scan
type yamlScan struct {
	Scan     domain.ScanSummary `yaml:"scan"`
	Networks []yamlNetwork      `yaml:"networks"`
}

type yamlNetwork struct {
	ID          string     `yaml:"id"`
	SignalDBM   *yamlField `yaml:"signal_dbm,omitempty"`
	NoiseDBM    *yamlField `yaml:"noise_dbm,omitempty"`
	Channel     *yamlField `yaml:"channel,omitempty"`
	ChannelSpec *yamlField `yaml:"channel_spec,omitempty"`
	Security    *yamlField `yaml:"security,omitempty"`
	BSSID       *yamlField `yaml:"bssid,omitempty"`
	TxRateMbps  *yamlField `yaml:"tx_rate_mbps,omitempty"`
	MaxRateMbps *yamlField `yaml:"max_rate_mbps,omitempty"`
	Saved       *yamlField `yaml:"saved,omitempty"`
	Connected   *yamlField `yaml:"connected,omitempty"`
	Sources     []string   `yaml:"sources,flow"`
}

type yamlField struct {
	Value  any    `yaml:"value"`
	Source string `yaml:"source"`
}

func toYAMLField[T any](f *domain.Field[T]) *yamlField {
	if f == nil {
		return nil
	}
	return &yamlField{Value: f.Value, Source: string(f.Source)}
}

func toYAMLNetwork(r domain.NetworkRecord) yamlNetwork {
	n := yamlNetwork{
		ID:          string(r.ID),
		SignalDBM:   toYAMLField(r.SignalDBM),
		NoiseDBM:    toYAMLField(r.NoiseDBM),
		Channel:     toYAMLField(r.Channel),
		ChannelSpec: toYAMLField(r.ChannelSpec),
		Security:    toYAMLField(r.Security),
		BSSID:       toYAMLField(r.BSSID),
		TxRateMbps:  toYAMLField(r.TxRateMbps),
		MaxRateMbps: toYAMLField(r.MaxRateMbps),
		Saved:       toYAMLField(r.Saved),
		Connected:   toYAMLField(r.Connected),
	}
	for _, s := range r.Sources {
		n.Sources = append(n.Sources, string(s))
	}
	return n
}

// Export exports a scan to YAML
func (c *YAMLCodec) Export(result *domain.ScanResult, w io.Writer) error {
	ys := yamlScan{Scan: result.Summary(), Networks: []yamlNetwork{}}
	for _, r := range result.Records() {
		ys.Networks = append(ys.Networks, toYAMLNetwork(r))
	}
	return c.encode(ys, w)
}

// ExportNetwork exports one network to YAML
func (c *YAMLCodec) ExportNetwork(record domain.NetworkRecord, w io.Writer) error {
	return c.encode(toYAMLNetwork(record), w)
}

func (c *YAMLCodec) encode(v any, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}
