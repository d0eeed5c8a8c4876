package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/entrhq/patrol/pkg/audit"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#A8E6CF")).
				Bold(true)

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB3BA")).
			Bold(true)

	cleanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8E6CF"))

	summaryNoteStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6B7280"))
)

// PrintSummary renders the end-of-run console summary: a findings
// table, per-priority counts and a pointer at the export files. The
// summary is a convenience surface only; the two export files are the
// authoritative output.
func PrintSummary(w io.Writer, findings []audit.Finding, artifactsDir string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, summaryTitleStyle.Render("patrol audit summary"))

	if len(findings) == 0 {
		fmt.Fprintln(w, cleanStyle.Render("No findings recorded. All checks passed."))
		fmt.Fprintln(w, summaryNoteStyle.Render("Reports written to "+artifactsDir))
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"No.", "Priority", "URL", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 48},
		{Number: 4, WidthMax: 56},
	})
	for _, f := range findings {
		t.AppendRow(table.Row{f.ID, string(f.Priority), f.URL, f.Description})
	}
	fmt.Fprintln(w, t.Render())

	counts := map[audit.Priority]int{}
	for _, f := range findings {
		counts[f.Priority]++
	}

	line := fmt.Sprintf("%d findings: %d urgent, %d moderate, %d low",
		len(findings),
		counts[audit.PriorityUrgent],
		counts[audit.PriorityModerate],
		counts[audit.PriorityLow])
	if counts[audit.PriorityUrgent] > 0 {
		fmt.Fprintln(w, urgentStyle.Render(line))
	} else {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, summaryNoteStyle.Render("Reports and screenshots written to "+artifactsDir))
}
