package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wifimon/internal/adapter"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the WiFi hardware port and its IP configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := adapter.InterfaceInfo(ctx, a.run, a.scans.Interface())
		if err != nil {
			return err
		}

		if infoJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printInterfaceReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print JSON")
}

func printInterfaceReport(w io.Writer, r adapter.InterfaceReport) {
	row := func(key, value string) {
		if value == "" {
			value = subtitleStyle.Render("-")
		}
		fmt.Fprintf(w, "  %-16s %s\n", key, value)
	}

	fmt.Fprintln(w, titleStyle.Render(r.Port)+subtitleStyle.Render(" ("+r.Device+")"))
	row("Configuration", r.Info.Configuration)
	row("IP address", r.Info.IPAddress)
	row("Subnet mask", r.Info.SubnetMask)
	row("Router", r.Info.Router)
	row("IPv6", r.Info.IPv6)
	row("IPv6 address", r.Info.IPv6Address)
	row("Wi-Fi ID", r.Info.WiFiID)
	row("MAC", r.MAC)

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Hardware ports"))
	for _, p := range r.Ports {
		fmt.Fprintf(w, "  %-24s %-8s %s\n", p.Name, p.Device, p.Address)
	}
}
