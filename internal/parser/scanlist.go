package parser

import (
	"regexp"
	"strconv"
	"strings"

	"wifimon/internal/domain"
)

var (
	bssidPattern   = regexp.MustCompile(`^[0-9a-fA-F]{1,2}(:[0-9a-fA-F]{1,2}){5}$`)
	signalPattern  = regexp.MustCompile(`^[-+]?\d{1,3}$`)
	channelPattern = regexp.MustCompile(`^(\d{1,3})(,[-+]?\d+)?$`)
	htPattern      = regexp.MustCompile(`^[YN]$`)
	countryPattern = regexp.MustCompile(`^([A-Z]{2}|--|X\d)$`)
)

// ScanListParser parses `airport -s` output.
//
// Columns are SSID, BSSID (omitted by recent macOS releases), RSSI, CHANNEL, HT, CC
// and SECURITY. SSIDs may contain spaces; HT and CC are optional so that the
// reduced "SSID RSSI CHANNEL SECURITY" form is accepted too.
type ScanListParser struct{}

// NewScanListParser creates a scan list parser
func NewScanListParser() *ScanListParser {
	return &ScanListParser{}
}

// Source returns domain.SourceScanList
func (p *ScanListParser) Source() domain.SourceTag {
	return domain.SourceScanList
}

// Parse extracts one record per visible network
func (p *ScanListParser) Parse(raw string) Parsed {
	c := newCollector(domain.SourceScanList)

	eachLine(raw, c, func(n int, line string) {
		toks := fields(line)
		if len(toks) == 0 || isScanHeader(toks) {
			return
		}

		rec, reason := parseScanRow(line, toks)
		if reason != "" {
			c.warn(n, line, reason)
			return
		}
		c.add(n, line, rec)
	})

	return c.out
}

func isScanHeader(toks []token) bool {
	if strings.HasPrefix(toks[0].text, "WARNING") {
		return true
	}
	hasSSID, hasRSSI := false, false
	for _, t := range toks {
		switch t.text {
		case "SSID":
			hasSSID = true
		case "RSSI":
			hasRSSI = true
		}
	}
	return hasSSID && hasRSSI
}

func parseScanRow(line string, toks []token) (domain.PartialNetworkRecord, string) {
	var rec domain.PartialNetworkRecord

	// toks[0] always belongs to the SSID; find the first position where the
	// remaining columns line up
	idStart, sig := -1, -1
	for i := 1; i < len(toks); i++ {
		j := i
		if bssidPattern.MatchString(toks[i].text) {
			j = i + 1
		}
		if j+1 < len(toks) && signalPattern.MatchString(toks[j].text) && channelPattern.MatchString(toks[j+1].text) {
			idStart, sig = i, j
			break
		}
	}
	if idStart < 0 {
		return rec, "missing signal or channel column"
	}

	id, err := domain.NewNetworkID(line[:toks[idStart].start])
	if err != nil {
		return rec, err.Error()
	}
	rec.ID = id

	if sig > idStart {
		rec.BSSID = domain.Ptr(strings.ToLower(toks[idStart].text))
	}

	signal, err := strconv.Atoi(toks[sig].text)
	if err != nil {
		return rec, "invalid signal " + strconv.Quote(toks[sig].text)
	}
	rec.SignalDBM = domain.Ptr(normalizeSignal(signal))

	chanSpec := toks[sig+1].text
	m := channelPattern.FindStringSubmatch(chanSpec)
	channel, _ := strconv.Atoi(m[1])
	rec.Channel = domain.Ptr(channel)
	if m[2] != "" {
		rec.ChannelSpec = domain.Ptr(chanSpec)
	}

	rest := toks[sig+2:]
	if len(rest) >= 3 && htPattern.MatchString(rest[0].text) && countryPattern.MatchString(rest[1].text) {
		rest = rest[2:]
	}
	if len(rest) > 0 {
		rec.Security = domain.Ptr(strings.TrimSpace(line[rest[0].start:]))
	}

	return rec, ""
}
