package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wifimon/internal/adapter"
)

var showFingerprint bool

var passwordCmd = &cobra.Command{
	Use:   "password <ssid>",
	Short: "Print the password stored in the keychain for a network",
	Long: `Print the password stored in the keychain for a network.

macOS may prompt for permission before the keychain releases it.
Every lookup is logged with a fingerprint of the password and, when
history is enabled, recorded in the audit trail.`,
	Args: cobra.ExactArgs(1),
	RunE: runPassword,
}

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Print likely router login addresses, the default gateway first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		info, err := adapter.LookupRouter(cmd.Context(), a.run)
		if err != nil {
			return err
		}
		switch {
		case info.LookupError != "":
			printWarning(cmd, "gateway lookup failed: %s; listing common router addresses", info.LookupError)
		case info.Gateway == "":
			printWarning(cmd, "no default route; listing common router addresses")
		}
		for _, addr := range info.Candidates {
			fmt.Fprintln(cmd.OutOrStdout(), addr)
		}
		return nil
	},
}

func init() {
	passwordCmd.Flags().BoolVar(&showFingerprint, "fingerprint", false, "print the fingerprint instead of the password")
}

func runPassword(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.openHistory(); err != nil {
		printWarning(cmd, "%v", err)
	}

	secret, err := a.credentials().GetCredential(ctx, args[0])
	if err != nil {
		return err
	}

	if showFingerprint {
		fmt.Fprintln(cmd.OutOrStdout(), secret.Fingerprint())
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), secret.Reveal())
	return nil
}
