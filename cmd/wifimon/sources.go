package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List scan sources in priority order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Sources")+subtitleStyle.Render(" (interface "+a.scans.Interface()+")"))
		for _, s := range a.registry.Sources() {
			state := successStyle.Render("enabled")
			if !s.Enabled {
				state = subtitleStyle.Render("disabled")
			}
			fmt.Fprintf(out, "  %d. %-10s %s  timeout %s\n", s.Rank+1, s.Name, state, s.Timeout)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored scans, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := validateLimit(historyLimit); err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.History.Path == "" {
			return errors.New("history is disabled; set history.path in the config file")
		}
		if err := a.openHistory(); err != nil {
			return err
		}

		scans, err := a.history.ListScans(ctx, historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, s := range scans {
			line := fmt.Sprintf("%s  %s  %3d networks", s.StartedAt.Local().Format(time.DateTime), s.ID, s.Networks)
			if len(s.Failures) > 0 {
				line += "  " + errorStyle.Render(fmt.Sprintf("%d failed", len(s.Failures)))
			}
			if s.Warnings > 0 {
				line += "  " + warningStyle.Render(fmt.Sprintf("%d warnings", s.Warnings))
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of scans to list")
}

func validateLimit(n int) error {
	if n < 1 {
		return fmt.Errorf("--limit must be a positive integer, got %d", n)
	}
	return nil
}
