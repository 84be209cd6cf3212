package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/ui/theme"
)

// ContentWidth returns the inner width shared by stacked cards so their
// borders line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

// Card wraps content in a rounded border at content width cw.
func Card(title, content string, cw int) string {
	if title != "" {
		content = theme.Heading.Render(title) + "\n\n" + content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 1).
		Render(content)
}

// Stat renders a label over a bold value, for dashboard tiles.
func Stat(label, value string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(value) + "\n" +
				theme.Dim.Render(label),
		)
}
