package login

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "dashboard" }
func (s *stubScreen) Title() string                          { return "Dashboard" }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestLogin(t *testing.T) (*LoginScreen, *auth.Service) {
	t.Helper()
	svc := auth.NewService(auth.NewMemoryUsers(), auth.NewMemorySessions(), auth.Options{HashCost: bcrypt.MinCost})
	if err := svc.SeedDemo(t.Context()); err != nil {
		t.Fatalf("seed demo: %v", err)
	}
	s := New(svc, func(*auth.User) screen.Screen { return &stubScreen{} })
	s.Init()
	return s, svc
}

func typeText(s *LoginScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

// submitAndRun presses enter and feeds the async result back in.
func submitAndRun(t *testing.T, s *LoginScreen) tea.Cmd {
	t.Helper()
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	if !s.busy {
		t.Error("screen should be busy while the request runs")
	}
	_, next := s.Update(cmd())
	return next
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestLogin_DemoAccount(t *testing.T) {
	s, svc := newTestLogin(t)

	typeText(s, auth.DemoEmail)
	s.Update(specialKey(tea.KeyTab))
	typeText(s, auth.DemoPassword)

	msgs := collect(submitAndRun(t, s))

	var gotUser, gotReset bool
	for _, m := range msgs {
		switch m := m.(type) {
		case screen.UserChangedMsg:
			gotUser = m.User != nil && m.User.Email == auth.DemoEmail
		case router.ResetScreenMsg:
			gotReset = m.Screen != nil
		}
	}
	if !gotUser {
		t.Error("expected UserChangedMsg for the demo user")
	}
	if !gotReset {
		t.Error("expected ResetScreenMsg to the next screen")
	}
	if _, err := svc.Current(t.Context()); err != nil {
		t.Errorf("user should be remembered, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _ := newTestLogin(t)

	typeText(s, auth.DemoEmail)
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "nope")

	if cmd := submitAndRun(t, s); cmd != nil {
		t.Error("failed login should not navigate")
	}
	if s.errMsg != "Invalid email or password" {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if s.busy {
		t.Error("busy should clear after the result")
	}
	if !strings.Contains(s.View(80, 30), "Invalid email or password") {
		t.Error("view should show the error")
	}
}

func TestLogin_EmptyFields(t *testing.T) {
	s, _ := newTestLogin(t)
	s.Update(specialKey(tea.KeyTab))

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("empty form should not submit")
	}
	if s.errMsg != "Please fill in all fields" {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestEnterMovesToNextField(t *testing.T) {
	s, _ := newTestLogin(t)
	if s.focus != fieldEmail {
		t.Fatalf("initial focus = %d", s.focus)
	}
	s.Update(specialKey(tea.KeyEnter))
	if s.focus != fieldPassword {
		t.Errorf("focus after enter = %d, want password", s.focus)
	}
	s.Update(specialKey(tea.KeyTab))
	if s.focus != fieldEmail {
		t.Errorf("tab should wrap to email, got %d", s.focus)
	}
}

func TestRegister_Mismatch(t *testing.T) {
	s, _ := newTestLogin(t)
	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if s.mode != ModeRegister {
		t.Fatal("ctrl+r should switch to register")
	}
	if s.focus != fieldName {
		t.Errorf("register should focus name, got %d", s.focus)
	}

	typeText(s, "Aiko")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "aiko@example.com")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "secret")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "secrex")

	submitAndRun(t, s)
	if s.errMsg != "Passwords do not match" {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestRegister_Success(t *testing.T) {
	s, svc := newTestLogin(t)
	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})

	typeText(s, "Aiko")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "aiko@example.com")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "secret")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "secret")

	msgs := collect(submitAndRun(t, s))
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	u, err := svc.Current(t.Context())
	if err != nil || u.Name != "Aiko" {
		t.Errorf("current user = %v, %v", u, err)
	}
}

func TestViewShowsDemoHint(t *testing.T) {
	s, _ := newTestLogin(t)
	view := s.View(80, 30)
	if !strings.Contains(view, auth.DemoEmail) {
		t.Error("login view should show demo credentials")
	}
	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if strings.Contains(s.View(80, 30), auth.DemoEmail) {
		t.Error("register view should not show demo credentials")
	}
	if s.Title() != "Create Account" {
		t.Errorf("Title() = %q", s.Title())
	}
}
