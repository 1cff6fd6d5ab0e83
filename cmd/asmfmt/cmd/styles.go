package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorSuccess = lipgloss.Color("#10B981")
	colorAccent  = lipgloss.Color("#06B6D4")

	errorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarning)

	// diff lines may carry source tabs, keep them untouched
	diffHeaderStyle  = lipgloss.NewStyle().Bold(true).TabWidth(lipgloss.NoTabConversion)
	diffHunkStyle    = lipgloss.NewStyle().Foreground(colorAccent).TabWidth(lipgloss.NoTabConversion)
	diffAddedStyle   = lipgloss.NewStyle().Foreground(colorSuccess).TabWidth(lipgloss.NoTabConversion)
	diffRemovedStyle = lipgloss.NewStyle().Foreground(colorError).TabWidth(lipgloss.NoTabConversion)
)

// colorDiff styles a unified diff line by line. Without a colour capable
// terminal the text comes back unchanged.
func colorDiff(diff string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")

		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			text = diffHeaderStyle.Render(text)
		case strings.HasPrefix(text, "@@"):
			text = diffHunkStyle.Render(text)
		case strings.HasPrefix(text, "+"):
			text = diffAddedStyle.Render(text)
		case strings.HasPrefix(text, "-"):
			text = diffRemovedStyle.Render(text)
		}

		b.WriteString(text)
		if strings.HasSuffix(line, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
