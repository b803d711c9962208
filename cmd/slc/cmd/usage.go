package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/slc/internal/domain/usage"
	"github.com/corey/slc/internal/ports"
)

var (
	usageJSON   bool
	usageRecent int
	usageReset  bool
	usageForce  bool
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show template usage statistics",
	Long:  "Lists tracked templates by usage score and the most recent queries. --reset clears all usage data.",
	Args:  exactArgs(0),
	RunE:  runUsage,
}

func init() {
	usageCmd.Flags().BoolVar(&usageJSON, "json", false, "Output as JSON")
	usageCmd.Flags().IntVar(&usageRecent, "recent", 5, "Number of recent queries to show")
	usageCmd.Flags().BoolVar(&usageReset, "reset", false, "Clear all usage data")
	usageCmd.Flags().BoolVar(&usageForce, "force", false, "Skip confirmation prompt for --reset")
}

// usageReport is the JSON shape of the usage command.
type usageReport struct {
	Templates []usage.TemplateUsage `json:"templates"`
	Queries   []ports.QueryLogEntry `json:"queries"`
	Total     int                   `json:"total_queries"`
}

func runUsage(cmd *cobra.Command, args []string) error {
	if usageRecent < 0 {
		return usageErrorf("--recent must not be negative")
	}
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if usageReset {
		if !usageForce {
			fmt.Fprint(out, "This will clear all usage data. Continue? [y/N] ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.TrimSpace(strings.ToLower(answer))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(out, "cancelled")
				return nil
			}
		}
		if err := a.ResetUsage(); err != nil {
			return fmt.Errorf("reset usage: %w", err)
		}
		fmt.Fprintln(out, "usage data reset")
		return nil
	}

	tr := a.Engine.Tracker()
	queries := tr.Queries()
	if usageJSON {
		recent := queries
		if len(recent) > usageRecent {
			recent = recent[len(recent)-usageRecent:]
		}
		return writeJSON(out, usageReport{Templates: tr.Summary(), Queries: recent, Total: len(queries)})
	}
	fmt.Fprint(out, formatUsage(tr.Summary(), queries, usageRecent))
	return nil
}
