package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/slc/internal/domain/usage"
)

var trackAction string

var trackCmd = &cobra.Command{
	Use:   "track <template>",
	Short: "Record that a template was viewed or used",
	Long:  "Counts a view or a project creation for the template. Usage feeds future recommendations.",
	Args:  exactArgs(1),
	RunE:  runTrack,
}

func init() {
	trackCmd.Flags().StringVarP(&trackAction, "action", "a", string(usage.Viewed), "Interaction: viewed or created")
}

func runTrack(cmd *cobra.Command, args []string) error {
	kind, err := usage.ParseKind(trackAction)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	id := args[0]
	// Usage is still recorded for templates outside the catalog.
	if a.Engine.Corpus().Get(id) == nil {
		warnUnknownTemplate(cmd, id)
	}

	tr := a.Engine.Tracker()
	if err := tr.RecordInteraction(id, kind); err != nil {
		return err
	}
	rec, _ := tr.Record(id)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: views %d, creates %d\n",
		paint(colorGreen, "✓"), paint(colorCyan, id), rec.Views, rec.Creates)
	return nil
}

func warnUnknownTemplate(cmd *cobra.Command, id string) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s is not in the catalog\n", paint(colorYellow, "warning:"), id)
}
