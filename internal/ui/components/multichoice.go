package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kotoba/internal/ui/theme"
)

// NoChoice marks a MultiChoice with nothing chosen yet.
const NoChoice = -1

// MultiChoice is a multiple-choice selector. Choosing again replaces the
// earlier choice unless the component is locked.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	ChosenIndex  int
	Locked       bool
}

// NewMultiChoice creates a selector. chosen is the earlier answer or
// NoChoice.
func NewMultiChoice(question string, options []string, correctIndex, chosen int) MultiChoice {
	sel := 0
	if chosen >= 0 && chosen < len(options) {
		sel = chosen
	}
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		Selected:     sel,
		ChosenIndex:  chosen,
	}
}

// Update moves the cursor. Enter or a digit key chooses an option; the
// returned bool reports that a choice was made.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.Locked {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter", "space":
		m.ChosenIndex = m.Selected
		return m, true
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(m.Options) {
			m.Selected = int(key[0] - '1')
			m.ChosenIndex = m.Selected
			return m, true
		}
	}
	return m, false
}

// Answered reports whether an option has been chosen.
func (m MultiChoice) Answered() bool { return m.ChosenIndex != NoChoice }

// IsCorrect reports whether the chosen option is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Answered() && m.ChosenIndex == m.CorrectIndex
}

// View renders the question and its options. Once answered the correct
// option is shown in green and a wrong choice in red.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case m.Answered() && i == m.CorrectIndex:
			line = theme.Correct.Render(line + "  ✓")
		case m.Answered() && i == m.ChosenIndex:
			line = theme.Incorrect.Render(line + "  ✗")
		case m.Answered():
			line = theme.Dim.Render(line)
		case i == m.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
