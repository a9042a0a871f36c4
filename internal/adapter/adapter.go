package adapter

import (
	"time"

	"wifimon/internal/domain"
	"wifimon/internal/parser"
	"wifimon/internal/runner"
)

// DefaultAirportPath is where macOS ships the airport utility
const DefaultAirportPath = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"

const networkSetupPath = "networksetup"

// Source defines one data channel queried during a scan
type Source interface {
	// Name returns the source tag, unique within a registry
	Name() domain.SourceTag

	// Command returns the invocation for the given WiFi device
	Command(iface string) runner.Command

	// Parser returns the parser for the command output
	Parser() parser.Parser
}

// FallbackSource is a Source with a second command, run when the first one
// cannot be launched or exits with an error. Both commands share the parser.
type FallbackSource interface {
	Source
	Fallback(iface string) (runner.Command, bool)
}

// SourceConfig holds configuration for a registered source
type SourceConfig struct {
	// Enabled determines if the source is queried
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Timeout bounds one command run; zero uses the registry default
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// CommandSource is a Source backed by a fixed command line
type CommandSource struct {
	name   domain.SourceTag
	build    func(iface string) runner.Command
	fallback func(iface string) runner.Command
	parser   parser.Parser
}

// NewCommandSource creates a source from a command builder and parser
func NewCommandSource(name domain.SourceTag, build func(iface string) runner.Command, p parser.Parser) *CommandSource {
	return &CommandSource{name: name, build: build, parser: p}
}

// NewScanListSource queries visible networks with `airport -s`
func NewScanListSource(airportPath string) *CommandSource {
	if airportPath == "" {
		airportPath = DefaultAirportPath
	}
	return NewCommandSource(domain.SourceScanList, func(string) runner.Command {
		return runner.Command{Name: airportPath, Args: []string{"-s"}}
	}, parser.NewScanListParser())
}

// NewConnectionSource queries the current association with `airport -I`. Recent
// macOS releases no longer ship airport; `networksetup -getairportnetwork` is
// used then, which reports the SSID only.
func NewConnectionSource(airportPath string) *CommandSource {
	if airportPath == "" {
		airportPath = DefaultAirportPath
	}
	return NewCommandSource(domain.SourceConnection, func(string) runner.Command {
		return runner.Command{Name: airportPath, Args: []string{"-I"}}
	}, parser.NewConnectionParser()).WithFallback(func(iface string) runner.Command {
		return runner.Command{Name: networkSetupPath, Args: []string{"-getairportnetwork", iface}}
	})
}

// NewPreferredSource queries saved networks of a device with networksetup
func NewPreferredSource() *CommandSource {
	return NewCommandSource(domain.SourcePreferred, func(iface string) runner.Command {
		return runner.Command{Name: networkSetupPath, Args: []string{"-listpreferredwirelessnetworks", iface}}
	}, parser.NewPreferredParser())
}

// Name returns the source tag
func (s *CommandSource) Name() domain.SourceTag {
	return s.name
}

// Command returns the invocation for iface
func (s *CommandSource) Command(iface string) runner.Command {
	return s.build(iface)
}

// Parser returns the output parser
func (s *CommandSource) Parser() parser.Parser {
	return s.parser
}

// WithFallback sets the command run when the primary one fails
func (s *CommandSource) WithFallback(build func(iface string) runner.Command) *CommandSource {
	s.fallback = build
	return s
}

// Fallback returns the fallback command for iface, if one is set
func (s *CommandSource) Fallback(iface string) (runner.Command, bool) {
	if s.fallback == nil {
		return runner.Command{}, false
	}
	return s.fallback(iface), true
}
