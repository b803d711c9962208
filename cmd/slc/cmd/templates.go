package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templatesJSON bool

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"ls"},
	Short:   "List the template catalog",
	Long:    "Lists every template the recommender can see, grouped by category, plus files it had to skip.",
	Args:    exactArgs(0),
	RunE:    runTemplates,
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Output as JSON")
}

// templateRow is the JSON shape of one listed template.
type templateRow struct {
	TemplateID  string `json:"template_id"`
	Category    string `json:"category"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func runTemplates(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	corpus := a.Engine.Corpus()
	out := cmd.OutOrStdout()

	if templatesJSON {
		rows := make([]templateRow, 0, corpus.Len())
		for _, d := range corpus.Documents {
			rows = append(rows, templateRow{
				TemplateID:  d.TemplateID,
				Category:    d.Category,
				Name:        d.Name,
				Description: d.Description,
			})
		}
		return writeJSON(out, struct {
			Templates []templateRow `json:"templates"`
			Warnings  []string      `json:"warnings,omitempty"`
		}{rows, corpus.Warnings})
	}

	fmt.Fprint(out, formatTemplates(corpus))
	return nil
}
