package cmd

import (
	"fmt"
	"strings"

	"newsdigest/orchestrator"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorPrimary = "#7D56F4"
	colorSuccess = "#04B575"
	colorError   = "#FF0000"
	colorInfo    = "#626262"
	colorBorder  = "#874BFD"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorPrimary))

	statusStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorSuccess))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorError))

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorInfo))

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorBorder)).
		Padding(0, 2)
)

// renderReport formats the outcome of a run for the terminal
func renderReport(r orchestrator.Report, runErr error) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("newsdigest run"))
	b.WriteString("\n")
	if r.RunID != "" {
		b.WriteString(infoStyle.Render("run " + r.RunID))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rows := []struct {
		label string
		value int
	}{
		{"feeds polled", r.FeedsPolled},
		{"feeds failed", r.FeedsFailed},
		{"candidates", r.Candidates},
		{"duplicates", r.Duplicates},
		{"new items", r.NewItems},
		{"archive size", r.ArchiveSize},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%-14s %d\n", row.label, row.value)
	}
	b.WriteString("\n")

	switch {
	case runErr != nil:
		b.WriteString(errorStyle.Render("failed: " + runErr.Error()))
	case r.Saved:
		b.WriteString(statusStyle.Render(fmt.Sprintf("saved %d new item(s)", r.NewItems)))
	default:
		b.WriteString(infoStyle.Render("no new items, archive unchanged"))
	}

	return boxStyle.Render(b.String())
}
