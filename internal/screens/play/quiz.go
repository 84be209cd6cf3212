package play

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/countdown"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/screens/results"
	"github.com/abhisek/kotoba/internal/ui/components"
	"github.com/abhisek/kotoba/internal/ui/layout"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

const emptyPoolMessage = "No questions available for the selected categories."

// timerTickMsg carries the generation of the timer that scheduled it.
type timerTickMsg struct {
	gen int64
}

type recordedMsg struct {
	err error
}

// generation tags timer ticks so a replaced quiz ignores stale ones.
var generation atomic.Int64

// QuizScreen runs one quiz session.
type QuizScreen struct {
	svc     screen.Services
	user    *auth.User
	session *quiz.Session
	mc      components.MultiChoice
	timer   *countdown.Timer
	gen     int64

	confirmQuit bool
	recording   bool
	final       quiz.Stats
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// NewQuiz creates a QuizScreen for a started session.
func NewQuiz(svc screen.Services, user *auth.User, s *quiz.Session) *QuizScreen {
	q := &QuizScreen{
		svc:     svc,
		user:    user,
		session: s,
		timer:   countdown.New(s.TimeLimit()),
		gen:     generation.Add(1),
	}
	if s.Empty() {
		q.timer.Stop()
	}
	q.syncChoice()
	return q
}

// Session returns the running session.
func (q *QuizScreen) Session() *quiz.Session { return q.session }

func (q *QuizScreen) tick() tea.Cmd {
	gen := q.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{gen: gen}
	})
}

func (q *QuizScreen) Init() tea.Cmd {
	if q.timer.Running() {
		return q.tick()
	}
	return nil
}

func (q *QuizScreen) Title() string { return "Quiz" }

// HandlesEscape keeps Esc from popping the quiz without confirmation.
func (q *QuizScreen) HandlesEscape() bool { return true }

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case q.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case q.session.Empty():
		return []layout.KeyHint{{Key: "Esc", Description: "Back to setup"}}
	}
	hints := []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "←", Description: "Previous"},
	}
	if q.session.IsLast() {
		hints = append(hints, layout.KeyHint{Key: "→", Description: "Finish"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "→", Description: "Next"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

// syncChoice rebuilds the selector for the current question.
func (q *QuizScreen) syncChoice() {
	cur, ok := q.session.Current()
	if !ok {
		return
	}
	chosen := q.session.Answer()
	q.mc = components.NewMultiChoice(cur.Prompt, cur.Options, cur.CorrectAnswer, chosen)
	q.mc.Locked = chosen != quiz.Unanswered
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if msg.gen != q.gen || !q.timer.Running() || q.session.Completed() {
			return q, nil
		}
		if q.timer.Tick() {
			q.session.Finish()
			return q, q.complete()
		}
		return q, q.tick()

	case recordedMsg:
		if msg.err != nil && q.svc.Logger != nil {
			q.svc.Logger.Error("record quiz", zap.Error(msg.err))
		}
		next := results.New(q.final, results.Actions{
			Retry:   q.retry,
			NewQuiz: func() screen.Screen { return NewSetup(q.svc, q.user) },
		})
		return q, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		return q.handleKey(msg)
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if q.recording {
		return q, nil
	}
	key := msg.String()

	if q.confirmQuit {
		switch key {
		case "y", "Y":
			q.timer.Stop()
			return q, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			q.confirmQuit = false
		}
		return q, nil
	}

	if q.session.Empty() {
		if key == "esc" || key == "enter" {
			setup := NewSetup(q.svc, q.user)
			setup.cfg = q.session.Config()
			return q, func() tea.Msg { return router.ReplaceScreenMsg{Screen: setup} }
		}
		return q, nil
	}

	switch key {
	case "esc":
		q.confirmQuit = true
		return q, nil
	case "left", "p":
		q.session.Retreat()
		q.syncChoice()
		return q, nil
	case "right", "n":
		return q, q.next()
	case "enter":
		if q.mc.Answered() {
			return q, q.next()
		}
	}

	var chose bool
	q.mc, chose = q.mc.Update(msg)
	if chose {
		if err := q.session.SubmitAnswer(q.mc.ChosenIndex); err != nil {
			q.syncChoice()
			return q, nil
		}
		q.mc.Locked = true
	}
	return q, nil
}

// next moves forward once the current question is answered, finishing
// the quiz from the last question.
func (q *QuizScreen) next() tea.Cmd {
	if q.session.Answer() == quiz.Unanswered {
		return nil
	}
	q.session.Advance()
	if q.session.Completed() {
		return q.complete()
	}
	q.syncChoice()
	return nil
}

// complete stops the timer and records the finished session.
func (q *QuizScreen) complete() tea.Cmd {
	if q.recording {
		return nil
	}
	q.recording = true
	q.timer.Stop()
	q.final = q.session.Stats()

	tracker, sess := q.svc.Tracker, q.session
	userID := ""
	if q.user != nil {
		userID = q.user.ID
	}
	return func() tea.Msg {
		if tracker == nil {
			return recordedMsg{}
		}
		_, err := tracker.RecordQuiz(context.Background(), userID, sess)
		return recordedMsg{err: err}
	}
}

// retry starts a fresh session with the same configuration.
func (q *QuizScreen) retry() tea.Msg {
	qs, err := q.svc.Catalog.Questions(context.Background())
	if err == nil {
		var s *quiz.Session
		if s, err = q.svc.Engine.Reset(qs, q.session.Config()); err == nil {
			return router.ReplaceScreenMsg{Screen: NewQuiz(q.svc, q.user, s)}
		}
	}
	setup := NewSetup(q.svc, q.user)
	setup.errMsg = err.Error()
	return router.ReplaceScreenMsg{Screen: setup}
}

func (q *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if q.session.Empty() {
		msg := theme.Body.Render(emptyPoolMessage) + "\n\n" +
			components.NewButton("Back to Setup", true).View()
		return layout.Center(width, height, components.Card("", msg, cw))
	}
	if q.confirmQuit {
		msg := theme.Heading.Render("Leave this quiz?") + "\n\n" +
			theme.Dim.Render("Your answers so far will not be saved.") + "\n\n" +
			components.ButtonRow([]string{"Y  Leave", "N  Keep going"}, 1)
		return layout.Center(width, height, components.Card("", msg, cw))
	}

	var sections []string
	sections = append(sections, q.renderHeader(cw))

	cur, _ := q.session.Current()
	var body strings.Builder
	body.WriteString(theme.Dim.Render(fmt.Sprintf("%s · %s", cur.Category.DisplayName(), cur.Difficulty)))
	body.WriteString("\n\n")
	body.WriteString(q.mc.View())
	if q.mc.Answered() {
		body.WriteString("\n")
		if q.mc.IsCorrect() {
			body.WriteString(theme.Correct.Render("Correct!"))
		} else {
			body.WriteString(theme.Incorrect.Render("Not quite. Answer: " + cur.CorrectOption()))
		}
		if cur.Explanation != "" {
			body.WriteString("\n")
			body.WriteString(theme.Hint.Render(cur.Explanation))
		}
	}
	sections = append(sections, components.Card("", body.String(), cw))
	sections = append(sections, q.renderNav())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}

func (q *QuizScreen) renderHeader(cw int) string {
	s := q.session
	pos := fmt.Sprintf("Question %d/%d", s.Position()+1, s.Len())
	score := fmt.Sprintf("Score %d", s.Score())

	timer := ""
	if s.TimeLimit() > 0 {
		style := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
		if q.timer.Remaining() <= time.Minute {
			style = style.Foreground(theme.Error)
		}
		timer = style.Render("⏱ " + q.timer.Format())
	}

	line := theme.Heading.Render(pos) + "    " + theme.Body.Render(score)
	if timer != "" {
		line += "    " + timer
	}
	bar := components.NewProgressBar("", s.Progress()/100, true, cw)
	return lipgloss.NewStyle().Width(cw).Render(line + "\n" + bar.View())
}

func (q *QuizScreen) renderNav() string {
	s := q.session
	var labels []string
	active := -1
	if s.Position() > 0 {
		labels = append(labels, "← Previous")
	}
	next := "Next →"
	if s.IsLast() {
		next = "Finish ✓"
	}
	if s.Answer() != quiz.Unanswered {
		active = len(labels)
	}
	labels = append(labels, next)
	return components.ButtonRow(labels, active)
}
