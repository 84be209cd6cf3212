// Package studyreport renders the aggregated study report and coach tips.
package studyreport

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/coach"
	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/ui/components"
	"github.com/abhisek/kotoba/internal/ui/layout"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

const emptyMessage = "No study data yet. Take a quiz to see your progress here."

type reportLoadedMsg struct {
	report *report.Report
	err    error
}

type adviceLoadedMsg struct {
	advice *coach.Advice
	err    error
}

// ReportScreen shows the user's study report.
type ReportScreen struct {
	svc    screen.Services
	user   *auth.User
	report *report.Report
	advice *coach.Advice

	loaded   bool
	coaching bool
	errMsg   string
	offset   int
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)

// New creates a ReportScreen for user.
func New(svc screen.Services, user *auth.User) *ReportScreen {
	return &ReportScreen{svc: svc, user: user}
}

func (s *ReportScreen) Init() tea.Cmd {
	tracker, userID := s.svc.Tracker, s.user.ID
	return func() tea.Msg {
		r, err := tracker.Report(context.Background(), userID)
		return reportLoadedMsg{report: r, err: err}
	}
}

func (s *ReportScreen) Title() string { return "Study Report" }

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "c", Description: "Refresh tips"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ReportScreen) adviseCmd() tea.Cmd {
	if s.report == nil || s.svc.Coach == nil {
		return nil
	}
	s.coaching = true
	c, r := s.svc.Coach, s.report
	return func() tea.Msg {
		a, err := c.Advise(context.Background(), r)
		return adviceLoadedMsg{advice: a, err: err}
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.report = msg.report
		return s, s.adviseCmd()

	case adviceLoadedMsg:
		s.coaching = false
		if msg.err == nil {
			s.advice = msg.advice
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		case "pgup":
			s.offset = max(s.offset-10, 0)
		case "pgdown", "space":
			s.offset += 10
		case "home", "g":
			s.offset = 0
		case "c":
			if !s.coaching {
				return s, s.adviseCmd()
			}
		}
	}
	return s, nil
}

func (s *ReportScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return centered.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	case !s.loaded:
		return centered.Foreground(theme.TextDim).Render("\n\nBuilding your report...")
	case s.report == nil:
		return centered.Foreground(theme.TextDim).Italic(true).Render("\n\n" + emptyMessage)
	}

	cw := components.ContentWidth(width)
	content := strings.Join([]string{
		renderOverall(s.report.Overall, cw),
		renderCategories(s.report.Categories, cw),
		renderTrend(s.report.WeeklyTrend, cw),
		renderRecommendations(s.report.Recommendations, cw),
		renderGoals(s.report.Goals, cw),
		s.renderAdvice(cw),
	}, "\n")

	lines := strings.Split(content, "\n")
	s.offset = min(s.offset, max(len(lines)-height, 0))
	end := min(s.offset+height, len(lines))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines[s.offset:end], "\n"))
}

func renderOverall(o report.OverallProgress, cw int) string {
	tile := max((cw-6)/4, 8)
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		components.Stat("Study hours", fmt.Sprintf("%.1f", o.TotalStudyHours), tile),
		components.Stat("Quizzes", fmt.Sprint(o.QuizzesCompleted), tile),
		components.Stat("Avg accuracy", fmt.Sprintf("%.0f%%", math.Round(o.AverageAccuracy)), tile),
		components.Stat("Day streak", fmt.Sprint(o.StudyStreak), tile),
	)
	return components.Card("Overall progress · "+string(o.Level), row, cw)
}

func renderCategories(cats []report.CategoryAnalysis, cw int) string {
	if len(cats) == 0 {
		return components.Card("Category analysis", theme.Dim.Render("No answers yet."), cw)
	}
	var b strings.Builder
	for i, c := range cats {
		if i > 0 {
			b.WriteString("\n\n")
		}
		status := theme.StatusColor(string(c.Status)).Render(string(c.Status))
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			theme.Heading.Render(c.Category.DisplayName()),
			status,
			theme.Dim.Render(fmt.Sprintf("%d questions · %+.0f%% this week", c.QuestionsAnswered, c.Improvement))))
		bar := components.NewProgressBar("", c.Accuracy/100, true, cw-4)
		bar.Color = theme.StatusColor(string(c.Status)).GetForeground()
		b.WriteString(bar.View())
		for _, tip := range c.Recommendations {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("  • " + tip))
		}
	}
	return components.Card("Category analysis", b.String(), cw)
}

// trendBarHeight is the number of rows in the weekly chart.
const trendBarHeight = 5

func renderTrend(points []report.TrendPoint, cw int) string {
	if len(points) == 0 {
		return ""
	}
	colW := max((cw-4)/len(points), 4)
	var rows []string
	for level := trendBarHeight; level >= 1; level-- {
		var row strings.Builder
		for _, p := range points {
			cell := "  "
			if p.QuizzesTaken > 0 && p.Accuracy >= float64(level-1)*100/trendBarHeight+1 {
				cell = lipgloss.NewStyle().Foreground(theme.Secondary).Render("██")
			}
			row.WriteString(lipgloss.NewStyle().Width(colW).Align(lipgloss.Center).Render(cell))
		}
		rows = append(rows, row.String())
	}
	var labels, values strings.Builder
	col := lipgloss.NewStyle().Width(colW).Align(lipgloss.Center)
	for _, p := range points {
		labels.WriteString(col.Render(theme.Dim.Render(p.Date.Format("Mon"))))
		v := "–"
		if p.QuizzesTaken > 0 {
			v = fmt.Sprintf("%.0f%%", math.Round(p.Accuracy))
		}
		values.WriteString(col.Render(v))
	}
	rows = append(rows, labels.String(), values.String())
	return components.Card("Last 7 days", strings.Join(rows, "\n"), cw)
}

func renderRecommendations(recs []report.Recommendation, cw int) string {
	if len(recs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range recs {
		if i > 0 {
			b.WriteString("\n")
		}
		tag := theme.StatusColor(string(r.Priority)).Render(fmt.Sprintf("[%s]", r.Priority))
		b.WriteString(fmt.Sprintf("%s %s: %s %s",
			tag, r.Category.DisplayName(), r.Suggestion, theme.Dim.Render("("+r.TimeRecommended+")")))
	}
	return components.Card("Recommendations", b.String(), cw)
}

func renderGoals(g report.Goals, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("This week"))
	for _, goal := range g.ShortTerm {
		b.WriteString("\n  ○ " + goal)
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("This month"))
	for _, goal := range g.LongTerm {
		b.WriteString("\n  ○ " + goal)
	}
	return components.Card("Goals", b.String(), cw)
}

func (s *ReportScreen) renderAdvice(cw int) string {
	if s.svc.Coach == nil {
		return ""
	}
	if s.coaching {
		return components.Card("Coach", theme.Dim.Render("Thinking about your next steps..."), cw)
	}
	if s.advice == nil {
		return ""
	}
	var b strings.Builder
	if s.advice.Summary != "" {
		b.WriteString(s.advice.Summary)
		b.WriteString("\n")
	}
	for _, tip := range s.advice.Tips {
		b.WriteString(fmt.Sprintf("\n  ▸ %s: %s %s",
			tip.Category.DisplayName(), tip.Tip, theme.Dim.Render(fmt.Sprintf("(%d min)", tip.Minutes))))
	}
	title := "Coach tips"
	if s.advice.Source == coach.SourceBuiltin {
		title = "Study tips"
	}
	return components.Card(title, b.String(), cw)
}
