package results

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "setup" }
func (s *stubScreen) Title() string                          { return "Setup" }

func testStats() quiz.Stats {
	return quiz.Stats{
		TotalQuestions:   5,
		Answered:         5,
		CorrectAnswers:   4,
		IncorrectAnswers: 1,
		Accuracy:         80,
		TimeSpent:        3.4,
		CategoryBreakdown: map[quiz.Category]quiz.CategoryResult{
			quiz.CategoryHiragana: {Correct: 3, Total: 3},
			quiz.CategoryGrammar:  {Correct: 1, Total: 2},
		},
	}
}

type retryMsg struct{}

func newTestResults() (*ResultsScreen, *int) {
	newCalls := 0
	s := New(testStats(), Actions{
		Retry: func() tea.Msg { return retryMsg{} },
		NewQuiz: func() screen.Screen {
			newCalls++
			return &stubScreen{}
		},
	})
	return s, &newCalls
}

func TestView(t *testing.T) {
	s, _ := newTestResults()
	view := s.View(100, 40)
	for _, want := range []string{"Quiz Complete!", "A  (80%)", "Hiragana", "3/3", "Grammar", "1/2", "Take another quiz", "Back to dashboard"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Katakana") {
		t.Error("unanswered categories should not be listed")
	}
}

func TestTakeAnotherQuiz(t *testing.T) {
	s, calls := newTestResults()
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Errorf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if *calls != 1 {
		t.Errorf("NewQuiz called %d times", *calls)
	}
}

func TestBackToDashboard(t *testing.T) {
	s, _ := newTestResults()
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestRetry(t *testing.T) {
	s, _ := newTestResults()
	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := cmd().(retryMsg); !ok {
		t.Errorf("expected retry command, got %T", cmd())
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if _, ok := cmd().(retryMsg); !ok {
		t.Errorf("r should retry, got %T", cmd())
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     string
	}{
		{100, "A+"}, {90, "A+"}, {85, "A"}, {70, "B"}, {60, "C"}, {59.9, "D"}, {0, "D"},
	}
	for _, tt := range tests {
		if got := Grade(tt.accuracy); got != tt.want {
			t.Errorf("Grade(%v) = %q, want %q", tt.accuracy, got, tt.want)
		}
	}
}
