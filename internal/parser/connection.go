package parser

import (
	"regexp"
	"strconv"
	"strings"

	"wifimon/internal/domain"
)

// networkSetupCurrentKey is the key printed by `networksetup -getairportnetwork`
const networkSetupCurrentKey = "Current Wi-Fi Network"

var leadingInt = regexp.MustCompile(`^\d+`)

// ConnectionParser parses the key/value status printed by `airport -I`. The single
// line form of `networksetup -getairportnetwork <device>` is accepted as well.
//
// At most one record is produced, marked connected. An interface that is not
// associated yields no record and no warning.
type ConnectionParser struct{}

// NewConnectionParser creates a connection status parser
func NewConnectionParser() *ConnectionParser {
	return &ConnectionParser{}
}

// Source returns domain.SourceConnection
func (p *ConnectionParser) Source() domain.SourceTag {
	return domain.SourceConnection
}

type kvLine struct {
	value string
	line  int
	text  string
}

// Parse extracts the currently associated network
func (p *ConnectionParser) Parse(raw string) Parsed {
	c := newCollector(domain.SourceConnection)
	kv := make(map[string]kvLine)

	eachLine(raw, c, func(n int, line string) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		if _, dup := kv[key]; dup {
			c.warn(n, line, "duplicate key "+strconv.Quote(key))
			return
		}
		kv[key] = kvLine{value: strings.TrimSpace(value), line: n, text: line}
	})

	if state, ok := kv["state"]; ok && state.value == "init" {
		return c.out
	}

	ssid, ok := kv["SSID"]
	if !ok {
		ssid, ok = kv[networkSetupCurrentKey]
	}
	if !ok || ssid.value == "" {
		return c.out
	}

	id, err := domain.NewNetworkID(ssid.value)
	if err != nil {
		c.warn(ssid.line, ssid.text, err.Error())
		return c.out
	}

	rec := domain.PartialNetworkRecord{ID: id, Connected: domain.Ptr(true)}

	if v, ok := kv["BSSID"]; ok && bssidPattern.MatchString(v.value) {
		rec.BSSID = domain.Ptr(strings.ToLower(v.value))
	}
	if v, ok := kv["agrCtlRSSI"]; ok {
		if n, err := strconv.Atoi(v.value); err == nil {
			rec.SignalDBM = domain.Ptr(normalizeSignal(n))
		} else {
			c.warn(v.line, v.text, "invalid signal")
		}
	}
	if v, ok := kv["agrCtlNoise"]; ok {
		if n, err := strconv.Atoi(v.value); err == nil {
			rec.NoiseDBM = domain.Ptr(normalizeSignal(n))
		} else {
			c.warn(v.line, v.text, "invalid noise")
		}
	}
	if v, ok := kv["lastTxRate"]; ok {
		rec.TxRateMbps = parseRate(c, v)
	}
	if v, ok := kv["maxRate"]; ok {
		rec.MaxRateMbps = parseRate(c, v)
	}
	if v, ok := kv["channel"]; ok && v.value != "" {
		if m := leadingInt.FindString(v.value); m != "" {
			ch, _ := strconv.Atoi(m)
			rec.Channel = domain.Ptr(ch)
			if m != v.value {
				rec.ChannelSpec = domain.Ptr(v.value)
			}
		} else {
			c.warn(v.line, v.text, "invalid channel")
		}
	}
	if v, ok := kv["link auth"]; ok && v.value != "" {
		rec.Security = domain.Ptr(v.value)
	}

	c.add(ssid.line, ssid.text, rec)
	return c.out
}

func parseRate(c *collector, v kvLine) *float64 {
	f, err := strconv.ParseFloat(v.value, 64)
	if err != nil {
		c.warn(v.line, v.text, "invalid rate")
		return nil
	}
	return domain.Ptr(f)
}
