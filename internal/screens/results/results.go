// Package results shows the outcome of a finished quiz.
package results

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/ui/components"
	"github.com/abhisek/kotoba/internal/ui/layout"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

// Actions builds the follow-up screens. Retry runs as a command and
// returns the navigation message.
type Actions struct {
	Retry   tea.Cmd
	NewQuiz func() screen.Screen
}

const (
	buttonRetry = iota
	buttonNew
	buttonDashboard
)

var buttonLabels = []string{"Retry same quiz", "Take another quiz", "Back to dashboard"}

// ResultsScreen displays the final stats of a quiz.
type ResultsScreen struct {
	stats   quiz.Stats
	actions Actions
	focus   int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen.
func New(stats quiz.Stats, actions Actions) *ResultsScreen {
	return &ResultsScreen{stats: stats, actions: actions, focus: buttonNew}
}

func (s *ResultsScreen) Init() tea.Cmd { return nil }

func (s *ResultsScreen) Title() string { return "Quiz Complete" }

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Dashboard"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h", "shift+tab":
		if s.focus > 0 {
			s.focus--
		}
	case "right", "l", "tab":
		if s.focus < len(buttonLabels)-1 {
			s.focus++
		}
	case "r":
		return s, s.activate(buttonRetry)
	case "enter":
		return s, s.activate(s.focus)
	}
	return s, nil
}

func (s *ResultsScreen) activate(button int) tea.Cmd {
	switch button {
	case buttonRetry:
		if s.actions.Retry != nil {
			return s.actions.Retry
		}
	case buttonNew:
		if s.actions.NewQuiz != nil {
			next := s.actions.NewQuiz()
			return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// Grade maps an accuracy percentage to a letter grade.
func Grade(accuracy float64) string {
	switch {
	case accuracy >= 90:
		return "A+"
	case accuracy >= 80:
		return "A"
	case accuracy >= 70:
		return "B"
	case accuracy >= 60:
		return "C"
	default:
		return "D"
	}
}

func gradeColor(accuracy float64) color.Color {
	switch {
	case accuracy >= 80:
		return theme.Success
	case accuracy >= 70:
		return theme.Secondary
	case accuracy >= 60:
		return theme.Warning
	default:
		return theme.Error
	}
}

func (s *ResultsScreen) View(width, height int) string {
	st := s.stats
	cw := components.ContentWidth(width)
	var sections []string

	gradeStyle := lipgloss.NewStyle().Foreground(gradeColor(st.Accuracy)).Bold(true)
	head := theme.Title.Render("Quiz Complete!") + "\n" +
		gradeStyle.Render(fmt.Sprintf("%s  (%.0f%%)", Grade(st.Accuracy), math.Round(st.Accuracy)))
	sections = append(sections, lipgloss.PlaceHorizontal(cw, lipgloss.Center, head))

	tile := max((cw-6)/4, 8)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
		components.Stat("Correct", fmt.Sprint(st.CorrectAnswers), tile),
		components.Stat("Incorrect", fmt.Sprint(st.IncorrectAnswers), tile),
		components.Stat("Accuracy", fmt.Sprintf("%.0f%%", math.Round(st.Accuracy)), tile),
		components.Stat("Minutes", fmt.Sprintf("%.0f", math.Round(st.TimeSpent)), tile),
	))

	if cats := st.Categories(); len(cats) > 0 {
		var b strings.Builder
		for i, cat := range cats {
			r := st.CategoryBreakdown[cat]
			label := fmt.Sprintf("%-10s %d/%d", cat.DisplayName(), r.Correct, r.Total)
			bar := components.NewProgressBar(label, r.Accuracy()/100, true, cw-4)
			b.WriteString(bar.View())
			if i < len(cats)-1 {
				b.WriteString("\n")
			}
		}
		sections = append(sections, components.Card("Performance by Category", b.String(), cw))
	}

	sections = append(sections, lipgloss.PlaceHorizontal(cw, lipgloss.Center,
		components.ButtonRow(buttonLabels, s.focus)))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}
