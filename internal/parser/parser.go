// Package parser converts the text output of the macOS WiFi utilities into
// PartialNetworkRecords.
//
// Parsers are pure and never panic. Header and footer lines are skipped silently,
// malformed rows are skipped with a ParseError warning, and when a source lists the
// same network twice only the first row is kept.
package parser

import (
	"strconv"
	"strings"

	"wifimon/internal/domain"
)

// Parser converts one source's raw output into partial records
type Parser interface {
	Source() domain.SourceTag
	Parse(raw string) Parsed
}

// Parsed is the outcome of one Parse call
type Parsed struct {
	Records  []domain.PartialNetworkRecord
	Warnings []domain.ParseError
}

// collector accumulates records for one parse and drops duplicates
type collector struct {
	source domain.SourceTag
	seen   map[domain.NetworkID]bool
	out    Parsed
}

func newCollector(source domain.SourceTag) *collector {
	return &collector{source: source, seen: make(map[domain.NetworkID]bool)}
}

func (c *collector) warn(line int, text, reason string) {
	c.out.Warnings = append(c.out.Warnings, domain.ParseError{
		Source: c.source,
		Line:   line,
		Text:   text,
		Reason: reason,
	})
}

// add appends rec unless its ID was already collected
func (c *collector) add(line int, text string, rec domain.PartialNetworkRecord) {
	if c.seen[rec.ID] {
		c.warn(line, text, "duplicate network "+strconv.Quote(string(rec.ID)))
		return
	}
	c.seen[rec.ID] = true
	rec.Source = c.source
	c.out.Records = append(c.out.Records, rec)
}

// maxLineLength bounds a single row; the utilities never print rows near it
const maxLineLength = 64 * 1024

// eachLine calls fn with 1-based line numbers. A line longer than maxLineLength
// is reported as a warning and skipped; the lines after it are still parsed.
func eachLine(raw string, c *collector, fn func(n int, line string)) {
	n := 0
	for rest := raw; rest != ""; {
		var line string
		line, rest, _ = strings.Cut(rest, "\n")
		n++
		if len(line) > maxLineLength {
			c.warn(n, line[:80], "line too long: "+strconv.Itoa(len(line))+" bytes")
			continue
		}
		fn(n, strings.TrimRight(line, "\r"))
	}
}

// normalizeSignal applies the dBm sign convention: reported magnitudes are negated,
// so a signal is never positive
func normalizeSignal(v int) int {
	if v > 0 {
		return -v
	}
	return v
}

// token is a whitespace-delimited field and its byte offset in the line
type token struct {
	text  string
	start int
}

func fields(line string) []token {
	var toks []token
	start := -1
	for i, r := range line {
		space := r == ' ' || r == '\t'
		switch {
		case !space && start < 0:
			start = i
		case space && start >= 0:
			toks = append(toks, token{text: line[start:i], start: start})
			start = -1
		}
	}
	if start >= 0 {
		toks = append(toks, token{text: line[start:], start: start})
	}
	return toks
}

var (
	_ Parser = (*ScanListParser)(nil)
	_ Parser = (*PreferredParser)(nil)
	_ Parser = (*ConnectionParser)(nil)
	_ Parser = (*CredentialParser)(nil)
)
