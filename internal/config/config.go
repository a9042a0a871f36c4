// Package config provides configuration management for wifimon.
//
// Config file locations (priority order):
//  1. $WIFIMON_CONFIG
//  2. ./wifimon.yaml
//  3. $XDG_CONFIG_HOME/wifimon/config.yaml
//  4. ~/.config/wifimon/config.yaml
//  5. /etc/wifimon/config.yaml
//
// Without a config file the defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSourceTimeout bounds one source command
	DefaultSourceTimeout = 10 * time.Second
	// DefaultCredentialTimeout bounds one keychain lookup, which may prompt the user
	DefaultCredentialTimeout = 30 * time.Second
	// DefaultServerAddr is the daemon listen address
	DefaultServerAddr = "127.0.0.1:8642"
	// DefaultPollInterval is the time between daemon background scans
	DefaultPollInterval = time.Minute
	// DefaultHistoryKeep is the number of scans the history retains
	DefaultHistoryKeep = 500
	// DefaultDebounce coalesces bursts of preference file writes
	DefaultDebounce = 2 * time.Second
	// AirportPreferencesPath holds the saved networks of macOS
	AirportPreferencesPath = "/Library/Preferences/SystemConfiguration/com.apple.airport.preferences.plist"
)

// knownSources are the source names accepted under scan.sources
var knownSources = []string{"connection", "scan_list", "preferred"}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	// start from defaults so omitted keys keep them
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Watch.Enabled = true
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Scan.SourceTimeout == 0 {
		c.Scan.SourceTimeout = Duration(DefaultSourceTimeout)
	}
	if c.Credential.Timeout == 0 {
		c.Credential.Timeout = Duration(DefaultCredentialTimeout)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.PollInterval == 0 {
		c.Server.PollInterval = Duration(DefaultPollInterval)
	}
	if c.History.Keep == 0 {
		c.History.Keep = DefaultHistoryKeep
	}
	if len(c.Watch.Paths) == 0 {
		c.Watch.Paths = []string{AirportPreferencesPath}
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = Duration(DefaultDebounce)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports settings that cannot be applied
func (c *Config) Validate() error {
	var errs []error

	names := make([]string, 0, len(c.Scan.Sources))
	for name := range c.Scan.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !isKnownSource(name) {
			errs = append(errs, fmt.Errorf("scan.sources: unknown source %q", name))
		}
		if t := c.Scan.Sources[name].Timeout; t != nil && *t < 0 {
			errs = append(errs, fmt.Errorf("scan.sources.%s.timeout: must not be negative", name))
		}
	}
	if c.Scan.MaxConcurrent < 0 {
		errs = append(errs, errors.New("scan.max_concurrent: must not be negative"))
	}
	if c.Scan.SourceTimeout < 0 {
		errs = append(errs, errors.New("scan.source_timeout: must not be negative"))
	}
	if c.Server.PollInterval < 0 {
		errs = append(errs, errors.New("server.poll_interval: must not be negative"))
	}
	if c.History.Keep < 0 {
		errs = append(errs, errors.New("history.keep: must not be negative"))
	}

	return errors.Join(errs...)
}

// SourceEnabled returns whether the named source should run. Sources are
// enabled unless configured otherwise.
func (c *Config) SourceEnabled(name string) bool {
	if s, ok := c.Scan.Sources[name]; ok && s.Enabled != nil {
		return *s.Enabled
	}
	return true
}

// SourceTimeout returns the timeout of the named source, zero meaning the scan
// default applies
func (c *Config) SourceTimeout(name string) time.Duration {
	if s, ok := c.Scan.Sources[name]; ok && s.Timeout != nil {
		return s.Timeout.Duration()
	}
	return 0
}

func isKnownSource(name string) bool {
	for _, s := range knownSources {
		if s == name {
			return true
		}
	}
	return false
}
