package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/displaywake/displaywake/internal/config"
	"github.com/displaywake/displaywake/internal/daemon"
	"github.com/displaywake/displaywake/internal/setup"
)

func init() {
	rootCmd.Flags().BoolVar(&reconfigure, "reconfigure", false, "Run the setup wizard again before starting")
	rootCmd.Flags().BoolVar(&webEnabled, "web", false, "Serve the status API regardless of the configured setting")
}

var (
	reconfigure bool
	webEnabled  bool
)

func runDaemon(cmd *cobra.Command, args []string) error {
	// First run walks through setup before the daemon starts
	if reconfigure || !config.Exists() {
		if _, err := setup.New(os.Stdin, os.Stdout).Run(); err != nil {
			return err
		}
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	if webEnabled {
		d.Config.Web.Enabled = true
	}

	return d.Run(context.Background())
}
