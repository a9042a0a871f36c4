package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wifimon/internal/codec"
	"wifimon/internal/domain"
)

var outputFormat string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan and print the merged networks",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

var showCmd = &cobra.Command{
	Use:   "show <ssid>",
	Short: "Scan and print one network with the source of each field",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	for _, c := range []*cobra.Command{scanCmd, showCmd} {
		c.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format ("+strings.Join(codec.Formats(), ", ")+")")
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	exporter, err := codec.ForFormat(outputFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.openHistory(); err != nil {
		printWarning(cmd, "%v", err)
	}

	result, scanErr := a.scans.Scan(ctx)
	if result != nil {
		if err := exporter.Export(result, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("export scan: %w", err)
		}
	}
	if scanErr != nil {
		return domain.NewCancellationError("", scanErr)
	}

	a.record(ctx, result.ID())
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	exporter, err := codec.ForFormat(outputFormat)
	if err != nil {
		return err
	}

	id, err := domain.NewNetworkID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.scans.Scan(ctx)
	if err != nil {
		return domain.NewCancellationError("", err)
	}
	for source, failure := range result.Failures() {
		printWarning(cmd, "%s: %v", source, failure)
	}

	rec, err := a.scans.GetNetwork(id)
	if err != nil {
		if domain.IsNotFound(err) {
			return fmt.Errorf("%w (%d networks in scan)", err, result.Len())
		}
		return err
	}
	return exporter.ExportNetwork(rec, cmd.OutOrStdout())
}
