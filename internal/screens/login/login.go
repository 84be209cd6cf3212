// Package login implements the sign in and registration screen.
package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/ui/components"
	"github.com/abhisek/kotoba/internal/ui/layout"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

// Mode selects which form is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// Form field indexes. Login uses only email and password.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldConfirm
)

// resultMsg carries the outcome of a login or register call.
type resultMsg struct {
	user *auth.User
	err  error
}

// LoginScreen collects credentials and signs the user in.
type LoginScreen struct {
	auth   *auth.Service
	next   func(*auth.User) screen.Screen
	mode   Mode
	fields []components.TextInput
	focus  int
	busy   bool
	errMsg string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen. next builds the screen shown after a
// successful sign in.
func New(svc *auth.Service, next func(*auth.User) screen.Screen) *LoginScreen {
	s := &LoginScreen{
		auth: svc,
		next: next,
		fields: []components.TextInput{
			fieldName:     components.NewTextInput("Name", "Your name", 64),
			fieldEmail:    components.NewTextInput("Email", "you@example.com", 128),
			fieldPassword: components.NewPasswordInput("Password", "••••••"),
			fieldConfirm:  components.NewPasswordInput("Confirm password", "••••••"),
		},
	}
	s.focus = s.visible()[0]
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.fields[s.focus].Focus()
}

func (s *LoginScreen) Title() string {
	if s.mode == ModeRegister {
		return "Create Account"
	}
	return "Sign In"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	toggle := "Create account"
	if s.mode == ModeRegister {
		toggle = "Sign in instead"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+R", Description: toggle},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// visible returns the field indexes shown in the current mode.
func (s *LoginScreen) visible() []int {
	if s.mode == ModeRegister {
		return []int{fieldName, fieldEmail, fieldPassword, fieldConfirm}
	}
	return []int{fieldEmail, fieldPassword}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		s.busy = false
		if msg.err != nil {
			s.errMsg = auth.Message(msg.err)
			return s, nil
		}
		user := msg.user
		return s, tea.Batch(
			func() tea.Msg { return screen.UserChangedMsg{User: user} },
			func() tea.Msg { return router.ResetScreenMsg{Screen: s.next(user)} },
		)

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "ctrl+r":
			return s, s.toggleMode()
		case "tab", "down":
			return s, s.moveFocus(1)
		case "shift+tab", "up":
			return s, s.moveFocus(-1)
		case "enter":
			vis := s.visible()
			if s.focus != vis[len(vis)-1] {
				return s, s.moveFocus(1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *LoginScreen) toggleMode() tea.Cmd {
	s.fields[s.focus].Blur()
	if s.mode == ModeLogin {
		s.mode = ModeRegister
	} else {
		s.mode = ModeLogin
	}
	s.errMsg = ""
	s.focus = s.visible()[0]
	return s.fields[s.focus].Focus()
}

func (s *LoginScreen) moveFocus(delta int) tea.Cmd {
	vis := s.visible()
	pos := 0
	for i, f := range vis {
		if f == s.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(vis)) % len(vis)
	s.fields[s.focus].Blur()
	s.focus = vis[pos]
	return s.fields[s.focus].Focus()
}

func (s *LoginScreen) value(field int) string {
	return s.fields[field].Value()
}

func (s *LoginScreen) submit() tea.Cmd {
	s.errMsg = ""
	if s.mode == ModeLogin && (strings.TrimSpace(s.value(fieldEmail)) == "" || s.value(fieldPassword) == "") {
		s.errMsg = auth.Message(auth.ErrMissingField)
		return nil
	}

	s.busy = true
	svc := s.auth
	if s.mode == ModeRegister {
		req := auth.RegisterRequest{
			Name:            s.value(fieldName),
			Email:           s.value(fieldEmail),
			Password:        s.value(fieldPassword),
			ConfirmPassword: s.value(fieldConfirm),
		}
		return func() tea.Msg {
			u, err := svc.Register(context.Background(), req)
			return resultMsg{user: u, err: err}
		}
	}
	email, password := s.value(fieldEmail), s.value(fieldPassword)
	return func() tea.Msg {
		u, err := svc.Login(context.Background(), email, password)
		return resultMsg{user: u, err: err}
	}
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("ことば Kotoba"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("JLPT N5 practice"))
	b.WriteString("\n\n")

	for _, f := range s.visible() {
		b.WriteString(s.fields[f].View())
		b.WriteString("\n\n")
	}

	label := "Sign In"
	if s.mode == ModeRegister {
		label = "Create Account"
	}
	if s.busy {
		label = "Please wait..."
	}
	b.WriteString(components.NewButton(label, true).View())
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
		b.WriteString("\n")
	}
	if s.mode == ModeLogin {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Demo account: " + auth.DemoEmail + " / " + auth.DemoPassword))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 3).
		Width(min(width-4, 56)).
		Render(b.String())
	return layout.Center(width, height, card)
}
