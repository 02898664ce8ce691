// Package cli implements the displaywake command-line interface using
// Cobra. Running displaywake without a subcommand starts the daemon.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "displaywake",
	Short: "Wake a Linux desktop from Home Assistant over MQTT",
	Long: `displaywake subscribes to an MQTT command topic and wakes or
refreshes the local display when a wake signal arrives, unless someone
is actively using the machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDaemon,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
