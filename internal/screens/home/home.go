package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/screens/history"
	"github.com/abhisek/kotoba/internal/screens/login"
	"github.com/abhisek/kotoba/internal/screens/play"
	"github.com/abhisek/kotoba/internal/screens/studyreport"
	"github.com/abhisek/kotoba/internal/ui/components"
)

type overviewLoadedMsg struct {
	overview *report.OverallProgress
	err      error
}

// HomeScreen is the dashboard shown after sign in.
type HomeScreen struct {
	svc        screen.Services
	user       *auth.User
	menu       components.Menu
	menuLabels []string
	overview   *report.OverallProgress
	loaded     bool

	// UpdateVersion, when set, shows a new-release note.
	UpdateVersion string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the dashboard for user.
func New(svc screen.Services, user *auth.User) *HomeScreen {
	h := &HomeScreen{svc: svc, user: user}

	h.menuLabels = []string{"START QUIZ", "STUDY REPORT", "HISTORY", "SIGN OUT", "EXIT"}
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			next := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}
	items := []components.MenuItem{
		{Label: h.menuLabels[0], Action: push(func() screen.Screen { return play.NewSetup(svc, user) })},
		{Label: h.menuLabels[1], Action: push(func() screen.Screen { return studyreport.New(svc, user) })},
		{Label: h.menuLabels[2], Action: push(func() screen.Screen { return history.New(svc.Tracker, user) })},
		{Label: h.menuLabels[3], Action: h.signOut},
		{Label: h.menuLabels[4], Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

// LoginScreen builds the sign in screen that leads back to the
// dashboard.
func LoginScreen(svc screen.Services) screen.Screen {
	return login.New(svc.Auth, func(u *auth.User) screen.Screen { return New(svc, u) })
}

func (h *HomeScreen) signOut() tea.Cmd {
	svc := h.svc
	if err := svc.Auth.Logout(context.Background()); err != nil && svc.Logger != nil {
		svc.Logger.Warn("sign out", zap.Error(err))
	}
	next := LoginScreen(svc)
	return tea.Batch(
		func() tea.Msg { return screen.UserChangedMsg{} },
		func() tea.Msg { return router.ResetScreenMsg{Screen: next} },
	)
}

// Init loads the overview. The dashboard is rebuilt after each quiz, so
// stats stay current without polling.
func (h *HomeScreen) Init() tea.Cmd {
	if h.svc.Tracker == nil {
		return nil
	}
	tracker, userID := h.svc.Tracker, h.user.ID
	return func() tea.Msg {
		r, err := tracker.Report(context.Background(), userID)
		if err != nil || r == nil {
			return overviewLoadedMsg{err: err}
		}
		return overviewLoadedMsg{overview: &r.Overall}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewLoadedMsg:
		h.loaded = true
		if msg.err != nil && h.svc.Logger != nil {
			h.svc.Logger.Warn("load dashboard", zap.Error(msg.err))
		}
		h.overview = msg.overview
		streak := 0
		if h.overview != nil {
			streak = h.overview.StudyStreak
		}
		user := h.user
		return h, func() tea.Msg { return screen.UserChangedMsg{User: user, Streak: streak} }
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	termHeight := height + 8
	compact := termHeight < 30 || width < 90
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, renderGreeting(h.user.Name, cw))
	sections = append(sections, renderStatsBar(h.overview, h.loaded, cw, compact))
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	}
	if h.svc.Coach != nil && h.svc.Coach.Enabled() {
		sections = append(sections, renderCoachNote(cw))
	}
	if h.UpdateVersion != "" {
		sections = append(sections, renderUpdateNote(h.UpdateVersion, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Dashboard"
}
