package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/displaywake/displaywake/internal/database"
	"github.com/displaywake/displaywake/internal/reporter"
)

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(historyCmd)
}

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history [day|week|month]",
	Short: "Show handled wake signals",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	period := "day"
	if len(args) > 0 {
		period = args[0]
	}

	db, err := database.Connect("")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return err
	}

	r := reporter.New(database.NewRepository(db))
	history, err := r.GenerateHistory(period)
	if err != nil {
		return err
	}

	if historyJSON {
		out, err := r.FormatHistoryJSON(history)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	fmt.Print(r.FormatHistoryText(history))
	return nil
}
