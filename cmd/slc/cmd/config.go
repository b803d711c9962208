package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/slc/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the resolved project root, catalog and state paths, and settings with their sources.",
	Args:  exactArgs(0),
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	cfg := a.Config

	store := paint(colorGreen, "✓ "+a.StoreKind())
	if a.StoreKind() != app.StoreBolt {
		store = paint(colorYellow, "✗ "+a.StoreKind()+" (not saved)")
	}
	sources := "defaults"
	if len(cfg.Source) > 0 {
		sources = "defaults, " + strings.Join(cfg.Source, ", ")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, paint(colorBold, "⚡ slc config"))
	fmt.Fprintf(out, "  Root:       %s\n", cfg.ProjectRoot)
	fmt.Fprintf(out, "  Modules:    %s\n", cfg.ModulesPath())
	fmt.Fprintf(out, "  State:      %s\n", a.Paths.Root)
	fmt.Fprintf(out, "  Usage DB:   %s\n", a.Paths.UsageDB)
	fmt.Fprintf(out, "  Store:      %s\n", store)
	fmt.Fprintf(out, "  Count:      %d\n", cfg.DefaultCount)
	fmt.Fprintf(out, "  Log level:  %s\n", cfg.LogLevel)
	fmt.Fprintf(out, "  Sources:    %s\n", sources)
	return nil
}
