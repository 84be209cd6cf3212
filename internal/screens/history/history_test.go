package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/router"
)

var testUser = &auth.User{ID: "u1"}

func newTestHistory(t *testing.T, n int) *HistoryScreen {
	t.Helper()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := report.NewMemoryStore()
	tracker := report.NewTracker(store, quiz.ClockFunc(func() time.Time { return now }), nil)
	for i := 0; i < n; i++ {
		now = now.Add(time.Hour)
		st := quiz.Stats{
			TotalQuestions: 10,
			Answered:       10,
			CorrectAnswers: i + 5,
			Accuracy:       float64(i+5) * 10,
			CategoryBreakdown: map[quiz.Category]quiz.CategoryResult{
				quiz.CategoryKatakana: {Correct: i + 5, Total: 10},
			},
		}
		if _, err := tracker.Record(context.Background(), testUser.ID, st, []quiz.Category{quiz.CategoryKatakana}, 4.5); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	s := New(tracker, testUser)
	s.Update(s.Init()())
	return s
}

func TestEmpty(t *testing.T) {
	s := newTestHistory(t, 0)
	if !strings.Contains(s.View(100, 30), "No quizzes yet") {
		t.Error("expected empty message")
	}
}

func TestNewestFirst(t *testing.T) {
	s := newTestHistory(t, 3)
	if len(s.sessions) != 3 {
		t.Fatalf("loaded %d sessions", len(s.sessions))
	}
	if s.sessions[0].Score != 7 {
		t.Errorf("first row score = %d, want newest (7)", s.sessions[0].Score)
	}
	view := s.View(120, 30)
	if strings.Index(view, "7/10") > strings.Index(view, "5/10") {
		t.Error("newest session should render first")
	}
	if !strings.Contains(view, "4:30") {
		t.Error("duration should render as m:ss")
	}
}

func TestExpandShowsAreas(t *testing.T) {
	s := newTestHistory(t, 3)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(120, 30)
	if !strings.Contains(view, "Categories: Katakana") {
		t.Error("expanded row should list categories")
	}
	if strings.Contains(view, "Needs work") {
		t.Error("a 70% session has no weak areas")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 30), "Needs work: Katakana") {
		t.Error("the 50% session should list katakana as weak")
	}
}

func TestNavigation(t *testing.T) {
	s := newTestHistory(t, 2)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("esc should pop, got %T", cmd())
	}
}
