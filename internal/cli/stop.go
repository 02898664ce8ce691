package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/displaywake/displaywake/internal/daemon"
)

func init() {
	rootCmd.AddCommand(stopCmd)
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	pf := daemon.NewPIDFile(daemon.PIDPath())
	if err := pf.Stop(); err != nil {
		return err
	}

	fmt.Println("Daemon stopped")
	return nil
}
