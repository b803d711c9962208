package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/slc/internal/app"
)

var (
	rootFlag     string
	logLevelFlag string
	colorFlag    string
	noColorFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "slc",
	Short: "slc — project template library with recommendations",
	Long:  "Find the project templates that best match a free-text request, and learn from what gets used.",

	SilenceUsage:  true,
	SilenceErrors: true,
}

// projectRoot returns the project root (--root, or cwd by default).
func projectRoot() (string, error) {
	if rootFlag != "" {
		return rootFlag, nil
	}
	return os.Getwd()
}

// loadApp resolves configuration, installs the default logger and wires the
// application for one command.
func loadApp(cmd *cobra.Command) (*app.App, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := app.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, usageErrorf("%v", err)
	}
	slog.SetDefault(logger)

	useColor = resolveColor(cmd.OutOrStdout(), colorFlag, noColorFlag)
	return app.New(cfg, logger)
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := app.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Project root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable color output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(configCmd)
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s: accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

// minArgs is cobra.MinimumNArgs reporting a usage error.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageErrorf("%s: requires at least %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}
