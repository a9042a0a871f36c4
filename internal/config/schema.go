package config

import (
	"time"

	"wifimon/internal/logger"
)

// Config is the top-level configuration structure
type Config struct {
	Version int `yaml:"version"`

	// Interface is the WiFi device, e.g. en0. Empty means detect it.
	Interface string `yaml:"interface,omitempty"`
	// AirportPath overrides the location of the airport utility
	AirportPath string `yaml:"airport_path,omitempty"`

	Scan       ScanConfig       `yaml:"scan"`
	Credential CredentialConfig `yaml:"credential"`
	Server     ServerConfig     `yaml:"server"`
	History    HistoryConfig    `yaml:"history"`
	Watch      WatchConfig      `yaml:"watch"`
	Log        logger.Config    `yaml:"log"`
}

// ScanConfig controls source collection
type ScanConfig struct {
	SourceTimeout Duration `yaml:"source_timeout"`
	// MaxConcurrent limits parallel source commands; zero runs all at once
	MaxConcurrent int                       `yaml:"max_concurrent"`
	Sources       map[string]SourceSettings `yaml:"sources,omitempty"`
}

// SourceSettings overrides the defaults of one source
type SourceSettings struct {
	Enabled *bool     `yaml:"enabled,omitempty"`
	Timeout *Duration `yaml:"timeout,omitempty"`
}

// CredentialConfig controls keychain lookups
type CredentialConfig struct {
	Timeout Duration `yaml:"timeout"`
}

// ServerConfig holds daemon settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// PollInterval is the time between background scans; zero disables polling
	PollInterval Duration `yaml:"poll_interval"`
}

// HistoryConfig holds scan history settings
type HistoryConfig struct {
	// Path is the SQLite database; empty disables the history
	Path string `yaml:"path,omitempty"`
	// Keep is the number of scans retained
	Keep int `yaml:"keep"`
}

// WatchConfig controls rescans on preference changes
type WatchConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Paths    []string `yaml:"paths,omitempty"`
	Debounce Duration `yaml:"debounce"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
