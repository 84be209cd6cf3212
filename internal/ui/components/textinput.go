package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kotoba/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Kotoba styling.
type TextInput struct {
	Label string
	Model textinput.Model
}

// NewTextInput creates a labelled, unfocused text input.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Label: label, Model: ti}
}

// NewPasswordInput creates a text input that masks what is typed.
func NewPasswordInput(label, placeholder string) TextInput {
	t := NewTextInput(label, placeholder, 64)
	t.Model.EchoMode = textinput.EchoPassword
	t.Model.EchoCharacter = '•'
	return t
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

// Blur removes focus.
func (t *TextInput) Blur() { t.Model.Blur() }

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool { return t.Model.Focused() }

// Update forwards msg to the underlying input.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label above the input.
func (t TextInput) View() string {
	label := theme.Dim.Render(t.Label)
	if t.Focused() {
		label = theme.Selected.Render(t.Label)
	}
	return label + "\n" + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string { return t.Model.Value() }

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) { t.Model.SetValue(v) }
