// Package play holds the quiz setup and question screens.
package play

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/catalog"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/ui/components"
	"github.com/abhisek/kotoba/internal/ui/layout"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

const errNoCategory = "Please select at least one category"

// Setup rows. The category rows sit between rowCount and rowTime.
const (
	rowCount = iota
	rowFirstCategory
)

type countsLoadedMsg struct {
	counts map[quiz.Category]int
	err    error
}

type quizStartedMsg struct {
	session *quiz.Session
	err     error
}

// SetupScreen lets the user configure a quiz before starting it.
type SetupScreen struct {
	svc    screen.Services
	user   *auth.User
	cfg    quiz.Config
	counts map[quiz.Category]int
	cursor int
	busy   bool
	errMsg string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// NewSetup creates a SetupScreen pre-filled from svc.Defaults.
func NewSetup(svc screen.Services, user *auth.User) *SetupScreen {
	cfg := svc.Defaults
	if cfg.QuestionCount == 0 {
		cfg = quiz.DefaultConfig()
	}
	cfg.Categories = slices.Clone(cfg.Categories)
	return &SetupScreen{svc: svc, user: user, cfg: cfg}
}

func (s *SetupScreen) categories() []quiz.Category { return quiz.AllCategories() }

func (s *SetupScreen) rowTime() int      { return rowFirstCategory + len(s.categories()) }
func (s *SetupScreen) rowRandomize() int { return s.rowTime() + 1 }
func (s *SetupScreen) rowStart() int     { return s.rowTime() + 2 }

func (s *SetupScreen) Init() tea.Cmd {
	provider := s.svc.Catalog
	return func() tea.Msg {
		qs, err := provider.Questions(context.Background())
		if err != nil {
			return countsLoadedMsg{err: err}
		}
		return countsLoadedMsg{counts: catalog.Counts(qs)}
	}
}

func (s *SetupScreen) Title() string { return "Quiz Setup" }

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "←→", Description: "Change"},
		{Key: "Space", Description: "Toggle"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// Config returns the configuration as currently edited.
func (s *SetupScreen) Config() quiz.Config { return s.cfg }

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case countsLoadedMsg:
		if msg.err != nil {
			s.errMsg = fmt.Sprintf("Could not load questions: %v", msg.err)
			return s, nil
		}
		s.counts = msg.counts
		return s, nil

	case quizStartedMsg:
		s.busy = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		next := NewQuiz(s.svc, s.user, msg.session)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j", "tab":
			if s.cursor < s.rowStart() {
				s.cursor++
			}
		case "left", "h":
			s.change(-1)
		case "right", "l":
			s.change(1)
		case "space", "x":
			s.toggle()
		case "enter":
			if s.cursor == s.rowStart() || s.cursor == rowCount || s.cursor == s.rowTime() {
				return s, s.start()
			}
			s.toggle()
		case "s":
			return s, s.start()
		}
	}
	return s, nil
}

func step(choices []int, cur, delta int) int {
	i := slices.Index(choices, cur)
	if i < 0 {
		return choices[0]
	}
	i = min(max(i+delta, 0), len(choices)-1)
	return choices[i]
}

func (s *SetupScreen) change(delta int) {
	switch s.cursor {
	case rowCount:
		s.cfg.QuestionCount = step(quiz.QuestionCountChoices, s.cfg.QuestionCount, delta)
	case s.rowTime():
		s.cfg.TimeLimit = step(quiz.TimeLimitChoices, s.cfg.TimeLimit, delta)
	case s.rowRandomize():
		s.cfg.Randomize = !s.cfg.Randomize
	}
}

func (s *SetupScreen) toggle() {
	switch {
	case s.cursor >= rowFirstCategory && s.cursor < s.rowTime():
		cat := s.categories()[s.cursor-rowFirstCategory]
		if i := slices.Index(s.cfg.Categories, cat); i >= 0 {
			s.cfg.Categories = slices.Delete(s.cfg.Categories, i, i+1)
		} else {
			s.cfg.Categories = append(s.cfg.Categories, cat)
		}
		s.errMsg = ""
	case s.cursor == s.rowRandomize():
		s.cfg.Randomize = !s.cfg.Randomize
	}
}

func (s *SetupScreen) start() tea.Cmd {
	if len(s.cfg.Categories) == 0 {
		s.errMsg = errNoCategory
		return nil
	}
	s.errMsg = ""
	s.busy = true

	// Keep categories in display order so the stored record is stable.
	var cats []quiz.Category
	for _, c := range s.categories() {
		if s.cfg.Includes(c) {
			cats = append(cats, c)
		}
	}
	cfg := s.cfg
	cfg.Categories = cats

	provider, engine := s.svc.Catalog, s.svc.Engine
	return func() tea.Msg {
		qs, err := provider.Questions(context.Background())
		if err != nil {
			return quizStartedMsg{err: err}
		}
		sess, err := engine.Start(qs, cfg)
		return quizStartedMsg{session: sess, err: err}
	}
}

func timeLabel(minutes int) string {
	if minutes == 0 {
		return "No limit"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

func (s *SetupScreen) row(i int, label, value string) string {
	line := fmt.Sprintf("%-18s %s", label, value)
	if i == s.cursor {
		return theme.Selected.Render("▸ " + line)
	}
	return theme.Unselected.Render("  " + line)
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(s.row(rowCount, "Questions", fmt.Sprintf("‹ %d ›", s.cfg.QuestionCount)))
	b.WriteString("\n\n")
	b.WriteString(theme.Dim.Render("  Categories"))
	b.WriteString("\n")
	for i, cat := range s.categories() {
		box := "[ ]"
		if s.cfg.Includes(cat) {
			box = "[x]"
		}
		label := cat.DisplayName()
		if s.counts != nil {
			label = fmt.Sprintf("%s (%d)", label, s.counts[cat])
		}
		b.WriteString(s.row(rowFirstCategory+i, "  "+box+" "+label, ""))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.row(s.rowTime(), "Time limit", "‹ "+timeLabel(s.cfg.TimeLimit)+" ›"))
	b.WriteString("\n")
	shuffle := "Off"
	if s.cfg.Randomize {
		shuffle = "On"
	}
	b.WriteString(s.row(s.rowRandomize(), "Shuffle questions", shuffle))
	b.WriteString("\n\n")

	label := "Start Quiz"
	if s.busy {
		label = "Starting..."
	}
	b.WriteString("  " + components.NewButton(label, s.cursor == s.rowStart()).View())

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render("  " + s.errMsg))
	}

	card := components.Card("Configure your quiz", b.String(), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
