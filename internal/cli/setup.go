package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/displaywake/displaywake/internal/setup"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the interactive setup wizard",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	_, err := setup.New(os.Stdin, os.Stdout).Run()
	return err
}
