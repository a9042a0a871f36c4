package parser

import (
	"strings"

	"wifimon/internal/domain"
)

// errorMarkers identify diagnostic lines networksetup prints in place of a list
var errorMarkers = []string{
	"** Error",
	"Error:",
	"is not a Wi-Fi interface",
}

// PreferredParser parses `networksetup -listpreferredwirelessnetworks <device>`.
// Every listed network is marked saved.
type PreferredParser struct{}

// NewPreferredParser creates a preferred network parser
func NewPreferredParser() *PreferredParser {
	return &PreferredParser{}
}

// Source returns domain.SourcePreferred
func (p *PreferredParser) Source() domain.SourceTag {
	return domain.SourcePreferred
}

// Parse extracts one saved record per listed network
func (p *PreferredParser) Parse(raw string) Parsed {
	c := newCollector(domain.SourcePreferred)

	eachLine(raw, c, func(n int, line string) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "Preferred networks on") {
			return
		}
		for _, marker := range errorMarkers {
			if strings.Contains(trimmed, marker) {
				c.warn(n, line, "networksetup reported an error")
				return
			}
		}

		id, err := domain.NewNetworkID(trimmed)
		if err != nil {
			c.warn(n, line, err.Error())
			return
		}
		c.add(n, line, domain.PartialNetworkRecord{ID: id, Saved: domain.Ptr(true)})
	})

	return c.out
}
