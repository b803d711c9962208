package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/corey/slc/internal/domain/index"
	"github.com/corey/slc/internal/domain/intent"
	"github.com/corey/slc/internal/domain/recommend"
	"github.com/corey/slc/internal/domain/usage"
	"github.com/corey/slc/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// paint wraps s in color when color output is enabled.
func paint(color, s string) string {
	if !useColor || s == "" {
		return s
	}
	return color + s + colorReset
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// formatRecommendations formats a ranking for terminal display.
//
//	⚡ 2 templates for "gateway api"
//	  1. web/gateway.json  0.455  API Gateway
//	     Routing gateway for backend services
//	     tfidf 0.139 │ usage 1.000 │ context 0.500 │ semantic 0.000
func formatRecommendations(query string, res *recommend.Result, verbose bool) string {
	var sb strings.Builder
	n := len(res.Recommendations)
	noun := "templates"
	if n == 1 {
		noun = "template"
	}
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d %s for %q", n, noun, query)))
	sb.WriteString("\n")

	for i, r := range res.Recommendations {
		sb.WriteString(fmt.Sprintf("  %d. %s  %s", i+1, paint(colorCyan, r.TemplateID), paint(colorGreen, fmt.Sprintf("%.3f", r.Score))))
		if r.Name != "" {
			sb.WriteString("  " + r.Name)
		}
		sb.WriteString("\n")
		if r.Description != "" {
			sb.WriteString("     " + paint(colorGray, r.Description) + "\n")
		}
		if verbose && r.Breakdown != nil {
			b := r.Breakdown
			sb.WriteString(fmt.Sprintf("     tfidf %.3f │ usage %.3f │ context %.3f │ semantic %.3f\n",
				b.TFIDF, b.Usage, b.Contextual, b.Semantic))
		}
	}

	if verbose {
		sb.WriteString(formatAnalysis(res.Analysis))
	}
	if res.QueryID != "" && n > 0 {
		sb.WriteString(paint(colorGray, fmt.Sprintf("  picked one? slc select %s <template>", res.QueryID)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatAnalysis renders the primary intent, then detected intents, domains
// and keywords on one line each.
func formatAnalysis(a intent.Analysis) string {
	var sb strings.Builder

	names := make([]string, 0, len(a.Intents))
	for name := range a.Intents {
		names = append(names, name)
	}
	sort.Strings(names)
	intents := make([]string, 0, len(names))
	for _, name := range names {
		intents = append(intents, fmt.Sprintf("%s(%.1f)", name, a.Intents[name]))
	}
	domains := make([]string, 0, len(a.Domains))
	for _, name := range a.DomainNames() {
		domains = append(domains, fmt.Sprintf("@%s(%d)", name, a.Domains[name]))
	}

	primary := a.PrimaryIntent()
	if primary == "" {
		primary = "-"
	}
	sb.WriteString(fmt.Sprintf("  %s %s\n", paint(colorMagenta, "intent:  "), primary))
	sb.WriteString(fmt.Sprintf("  %s %s\n", paint(colorMagenta, "intents: "), joinOrDash(intents)))
	sb.WriteString(fmt.Sprintf("  %s %s\n", paint(colorMagenta, "domains: "), joinOrDash(domains)))
	sb.WriteString(fmt.Sprintf("  %s %s\n", paint(colorMagenta, "keywords:"), joinOrDash(a.Keywords)))
	return sb.String()
}

// formatNoMatch is the hint printed when nothing was recommended.
func formatNoMatch(query string) string {
	return fmt.Sprintf("%s\n  try broader or different words, or list the catalog with: slc templates\n",
		paint(colorYellow, fmt.Sprintf("no templates found for %q", query)))
}

// formatUsage formats the usage summary and the most recent queries.
func formatUsage(rows []usage.TemplateUsage, queries []ports.QueryLogEntry, recent int) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d tracked templates │ %d logged queries", len(rows), len(queries))))
	sb.WriteString("\n")

	for _, r := range rows {
		last := "-"
		if r.Record.LastUsed != nil {
			last = r.Record.LastUsed.Local().Format("2006-01-02 15:04")
		}
		sb.WriteString(fmt.Sprintf("  %s  %s  views %d  creates %d  %s\n",
			paint(colorCyan, r.TemplateID),
			paint(colorGreen, fmt.Sprintf("%.3f", r.Score)),
			r.Record.Views, r.Record.Creates,
			paint(colorGray, last)))
	}

	if len(queries) > recent {
		queries = queries[len(queries)-recent:]
	}
	if len(queries) > 0 {
		sb.WriteString(paint(colorBold, "recent queries"))
		sb.WriteString("\n")
		for i := len(queries) - 1; i >= 0; i-- {
			q := queries[i]
			sb.WriteString(fmt.Sprintf("  %s  %q", paint(colorGray, q.Timestamp.Local().Format("2006-01-02 15:04")), q.Query))
			if q.SelectedTemplate != "" {
				sb.WriteString(" → " + paint(colorCyan, q.SelectedTemplate))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// formatTemplates lists the loaded catalog grouped by category.
func formatTemplates(c *index.Corpus) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d templates", c.Len())))
	sb.WriteString("\n")

	category := ""
	for _, d := range c.Documents {
		if d.Category != category {
			category = d.Category
			sb.WriteString(paint(colorMagenta, "@"+category) + "\n")
		}
		sb.WriteString("  " + paint(colorCyan, d.TemplateID))
		if d.Name != "" {
			sb.WriteString("  " + d.Name)
		}
		sb.WriteString("\n")
	}
	for _, w := range c.Warnings {
		sb.WriteString(paint(colorYellow, "  ! "+w) + "\n")
	}
	return sb.String()
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, " ")
}
