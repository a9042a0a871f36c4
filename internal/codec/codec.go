// Package codec renders scan results for the CLI and for export.
package codec

import (
	"fmt"
	"io"
	"sort"

	"wifimon/internal/domain"
)

// Exporter interface for exporting scan data to various formats
type Exporter interface {
	Export(result *domain.ScanResult, w io.Writer) error
	ExportNetwork(record domain.NetworkRecord, w io.Writer) error
	Format() string
}

var exporters = map[string]func() Exporter{
	"json":  func() Exporter { return NewJSONCodec() },
	"yaml":  func() Exporter { return NewYAMLCodec() },
	"table": func() Exporter { return NewTableCodec() },
}

// ForFormat returns the exporter registered for format
func ForFormat(format string) (Exporter, error) {
	newExporter, ok := exporters[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats())
	}
	return newExporter(), nil
}

// Formats lists the supported output formats
func Formats() []string {
	formats := make([]string, 0, len(exporters))
	for f := range exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
