package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/screens/home"
	"github.com/abhisek/kotoba/internal/screens/welcome"
	"github.com/abhisek/kotoba/internal/ui/layout"
)

// Options tunes the TUI.
type Options struct {
	// SkipSplash starts on the login screen or dashboard directly.
	SkipSplash bool

	// UpdateVersion is a newer release to mention on the dashboard.
	UpdateVersion string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	user   *auth.User
	streak int
	width  int
	height int
}

// newAppModel creates an AppModel. A remembered user goes straight to
// the dashboard; everyone else signs in first.
func newAppModel(svc screen.Services, opts Options) AppModel {
	var user *auth.User
	if svc.Auth != nil {
		if u, err := svc.Auth.Current(context.Background()); err == nil {
			user = u
		}
	}

	first := func() screen.Screen {
		if user == nil {
			return home.LoginScreen(svc)
		}
		h := home.New(svc, user)
		h.UpdateVersion = opts.UpdateVersion
		return h
	}

	var initial screen.Screen
	if opts.SkipSplash {
		initial = first()
	} else {
		initial = welcome.New(first)
	}
	return AppModel{
		router: router.New(initial),
		user:   user,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.UserChangedMsg:
		m.user = msg.User
		m.streak = msg.Streak
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	userName := ""
	if m.user != nil {
		userName = m.user.Name
	}
	header := layout.RenderHeader(title, userName, m.streak, m.width)

	var footerHints []layout.KeyHint
	switch {
	case active != nil && hintsFor(active) != nil:
		footerHints = hintsFor(active)
	case m.router.Depth() > 1:
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	default:
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func hintsFor(s screen.Screen) []layout.KeyHint {
	if p, ok := s.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	return nil
}

// Run starts the Bubble Tea program.
func Run(svc screen.Services, opts Options) error {
	p := tea.NewProgram(newAppModel(svc, opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
