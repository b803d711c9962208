package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/slc/internal/domain/recommend"
)

var (
	recommendCount   int
	recommendVerbose bool
	recommendJSON    bool
	recommendWatch   bool
)

var recommendCmd = &cobra.Command{
	Use:     "recommend <query...>",
	Aliases: []string{"rec"},
	Short:   "Recommend templates for a free-text request",
	Long: "Ranks every template in the catalog against the request by text relevance, past usage, " +
		"the request's domain and its intent, and prints the best matches. Exits 1 when nothing matches.",
	Args: minArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendCount, "count", "n", 0,
		fmt.Sprintf("Number of results, 1-%d (default from config)", recommend.MaxResultsLimit))
	recommendCmd.Flags().BoolVarP(&recommendVerbose, "verbose", "v", false, "Show score breakdown and query analysis")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Output as JSON")
	recommendCmd.Flags().BoolVarP(&recommendWatch, "watch", "w", false, "Re-run whenever a template changes")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	count := recommendCount
	if !cmd.Flags().Changed("count") {
		count = a.Config.DefaultCount
	}
	out := cmd.OutOrStdout()

	res, err := a.Engine.Rank(query, count, recommendVerbose)
	if err != nil {
		return err
	}
	matched, err := printRanking(out, query, res)
	if err != nil {
		return err
	}

	if !recommendWatch {
		if !matched {
			return errNoMatch
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := a.WatchCatalog(func(path string, engine *recommend.Engine) {
		fmt.Fprintln(out, paint(colorGray, "changed: "+path))
		again, err := engine.Rerank(res.QueryID, query, count, recommendVerbose)
		if err == nil {
			_, err = printRanking(out, query, again)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintln(out, paint(colorGray, "watching "+a.Catalog.Root()+" (Ctrl-C to stop)"))
	<-ctx.Done()
	return nil
}

// printRanking prints one ranking result. Reports whether anything matched.
func printRanking(out io.Writer, query string, res *recommend.Result) (bool, error) {
	if recommendJSON {
		return len(res.Recommendations) > 0, writeJSON(out, res)
	}
	if len(res.Recommendations) == 0 {
		fmt.Fprint(out, formatNoMatch(query))
		return false, nil
	}
	fmt.Fprint(out, formatRecommendations(query, res, recommendVerbose))
	return true, nil
}
