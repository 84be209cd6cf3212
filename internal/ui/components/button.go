package components

import (
	"github.com/abhisek/kotoba/internal/ui/theme"
)

// Button is a focusable label.
type Button struct {
	Label  string
	Active bool
}

// NewButton creates a new button.
func NewButton(label string, active bool) Button {
	return Button{Label: label, Active: active}
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

// ButtonRow renders labels side by side with the one at active
// highlighted.
func ButtonRow(labels []string, active int) string {
	var out string
	for i, l := range labels {
		if i > 0 {
			out += "  "
		}
		out += NewButton(l, i == active).View()
	}
	return out
}
