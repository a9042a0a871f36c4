package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wifimon/internal/domain"
)

var (
	// Version is set via -ldflags
	Version = "dev"

	cfgFile   string
	logLevel  string
	ifaceFlag string

	rootCmd = &cobra.Command{
		Use:   "wifimon",
		Short: "Reconciled WiFi scan data for macOS",
		Long: titleStyle.Render("wifimon") + subtitleStyle.Render(" - reconciled WiFi scan data for macOS") + `

wifimon queries the airport utility, networksetup and the keychain,
and merges their output into one record per network. Each field names
the source that supplied it.

` + subtitleStyle.Render("Examples:") + `
  wifimon scan                List visible and saved networks
  wifimon show HomeNet        Show one network with field sources
  wifimon password HomeNet    Print the stored password
  wifimon info                Show IP configuration of the WiFi port
  wifimon serve               Run the HTTP API`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wifimon/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&ifaceFlag, "interface", "i", "", "WiFi interface (default is detected)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(historyCmd)
}

// exit codes
const (
	exitFailure  = 1
	exitNotFound = 2
	exitCanceled = 130
)

func exitCode(err error) int {
	switch {
	case domain.IsNotFound(err):
		return exitNotFound
	case errors.Is(err, domain.ErrCanceled):
		return exitCanceled
	default:
		return exitFailure
	}
}

func printWarning(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render("Warning: ")+fmt.Sprintf(format, args...))
}
