package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select <query-id> <template>",
	Short: "Record which template was picked for a recommendation",
	Long:  "Links a logged query (its ID is printed by recommend) to the chosen template and counts a view of it.",
	Args:  exactArgs(2),
	RunE:  runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	queryID, id := args[0], args[1]
	if a.Engine.Corpus().Get(id) == nil {
		warnUnknownTemplate(cmd, id)
	}
	if err := a.Engine.Tracker().SelectTemplate(queryID, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s selected for query %s\n",
		paint(colorGreen, "✓"), paint(colorCyan, id), queryID)
	return nil
}
