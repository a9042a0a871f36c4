package codec

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"wifimon/internal/domain"
)

const unknown = "-"

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	connectedStyle = cellStyle.Foreground(lipgloss.Color("#10B981"))
	failureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// TableCodec renders human readable tables for terminals
type TableCodec struct{}

// NewTableCodec creates a new table codec
func NewTableCodec() *TableCodec {
	return &TableCodec{}
}

// Format returns the codec format identifier
func (c *TableCodec) Format() string {
	return "table"
}

// Export renders one row per network, followed by source failures
func (c *TableCodec) Export(result *domain.ScanResult, w io.Writer) error {
	records := result.Records()

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			string(r.ID),
			formatSignal(r.SignalDBM),
			formatChannel(r),
			formatString(r.Security),
			formatBool(r.Saved),
			formatBool(r.Connected),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SSID", "SIGNAL", "CHANNEL", "SECURITY", "SAVED", "CONNECTED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(records) && records[row].IsConnected() {
				return connectedStyle
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	failures := result.Failures()
	sources := make([]string, 0, len(failures))
	for src := range failures {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)
	for _, src := range sources {
		line := fmt.Sprintf("source %s failed: %v", src, failures[domain.SourceTag(src)])
		if _, err := fmt.Fprintln(w, failureStyle.Render(line)); err != nil {
			return err
		}
	}

	if n := len(result.Warnings()); n > 0 {
		if _, err := fmt.Fprintf(w, "%d malformed rows skipped\n", n); err != nil {
			return err
		}
	}

	return nil
}

// ExportNetwork renders the fields of one network with their provenance
func (c *TableCodec) ExportNetwork(r domain.NetworkRecord, w io.Writer) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("FIELD", "VALUE", "SOURCE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	t.Row("ssid", string(r.ID), "")
	addRow(t, "signal", r.SignalDBM, formatSignal)
	addRow(t, "noise", r.NoiseDBM, formatSignal)
	addRow(t, "channel", r.Channel, func(f *domain.Field[int]) string { return strconv.Itoa(f.Value) })
	addRow(t, "channel_spec", r.ChannelSpec, formatString)
	addRow(t, "security", r.Security, formatString)
	addRow(t, "bssid", r.BSSID, formatString)
	addRow(t, "tx_rate", r.TxRateMbps, formatRate)
	addRow(t, "max_rate", r.MaxRateMbps, formatRate)
	addRow(t, "saved", r.Saved, formatBool)
	addRow(t, "connected", r.Connected, formatBool)

	sources := make([]string, len(r.Sources))
	for i, s := range r.Sources {
		sources[i] = string(s)
	}
	t.Row("sources", strings.Join(sources, ", "), "")

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func addRow[T any](t *table.Table, name string, f *domain.Field[T], format func(*domain.Field[T]) string) {
	if f == nil {
		t.Row(name, unknown, "")
		return
	}
	t.Row(name, format(f), string(f.Source))
}

func formatSignal(f *domain.Field[int]) string {
	if f == nil {
		return unknown
	}
	return fmt.Sprintf("%d dBm", f.Value)
}

func formatChannel(r domain.NetworkRecord) string {
	if r.ChannelSpec != nil {
		return r.ChannelSpec.Value
	}
	if r.Channel != nil {
		return strconv.Itoa(r.Channel.Value)
	}
	return unknown
}

func formatString(f *domain.Field[string]) string {
	if f == nil || f.Value == "" {
		return unknown
	}
	return f.Value
}

func formatRate(f *domain.Field[float64]) string {
	if f == nil {
		return unknown
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64) + " Mbps"
}

func formatBool(f *domain.Field[bool]) string {
	switch {
	case f == nil:
		return unknown
	case f.Value:
		return "yes"
	default:
		return "no"
	}
}
