package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/displaywake/displaywake/internal/database"
)

func init() {
	rootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded wake signals",
	RunE:  runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	// Prompt for confirmation
	fmt.Print("This will delete all recorded wake signals. Are you sure? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" && response != "y" {
		fmt.Println("Operation cancelled")
		return nil
	}

	db, err := database.Connect("")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return err
	}

	if err := database.NewRepository(db).Clear(); err != nil {
		return err
	}

	fmt.Println("Wake journal cleared")
	return nil
}
