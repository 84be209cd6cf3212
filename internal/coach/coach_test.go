package coach

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/llm"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/report"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleReport() *report.Report {
	history := []report.StudySession{
		{
			ID: "s1", UserID: "1", CompletedAt: now.Add(-time.Hour),
			Score: 3, TotalQuestions: 10, Accuracy: 30, TimeSpent: 8,
			Categories: []quiz.Category{quiz.CategoryGrammar},
		},
		{
			ID: "s2", UserID: "1", CompletedAt: now.Add(-2 * time.Hour),
			Score: 9, TotalQuestions: 10, Accuracy: 90, TimeSpent: 6,
			Categories: []quiz.Category{quiz.CategoryHiragana},
		},
	}
	return report.Build(history, now)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxTips = 2
	return cfg
}

func TestAdvise_NilReport(t *testing.T) {
	_, err := New(nil, testConfig(), nil).Advise(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoReport)
}

func TestAdvise_BuiltinWithoutProvider(t *testing.T) {
	svc := New(nil, testConfig(), nil)
	assert.False(t, svc.Enabled())

	a, err := svc.Advise(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, a.Source)
	require.Len(t, a.Tips, 2)
	assert.Equal(t, quiz.CategoryGrammar, a.Tips[0].Category)
	assert.Equal(t, 30, a.Tips[0].Minutes)
}

func TestAdvise_FromModel(t *testing.T) {
	mock := llm.NewMock(llm.MockResponse{Content: json.RawMessage(`{
		"summary": "Good start.",
		"tips": [
			{"category": "grammar", "tip": "Write five sentences using を.", "minutes": 15},
			{"category": "hiragana", "tip": "Read a children's picture book aloud.", "minutes": 10},
			{"category": "katakana", "tip": "Spell your favourite foods.", "minutes": 10}
		]
	}`)})
	svc := New(mock, testConfig(), nil)

	a, err := svc.Advise(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, SourceCoach, a.Source)
	assert.Equal(t, "Good start.", a.Summary)
	require.Len(t, a.Tips, 2, "tips capped at MaxTips")
	assert.Equal(t, quiz.CategoryGrammar, a.Tips[0].Category)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Same(t, AdviceSchema, calls[0].Schema)
	assert.Contains(t, calls[0].Prompt, "grammar: 30%")
	assert.Contains(t, calls[0].Prompt, "at most 2 tips")
}

func TestAdvise_FallsBackOnInvalidOutput(t *testing.T) {
	mock := llm.NewMock(llm.MockResponse{Content: json.RawMessage(`{"summary":"x","tips":[{"category":"kanji","tip":"y","minutes":10}]}`)})
	svc := New(mock, testConfig(), nil)

	a, err := svc.Advise(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, a.Source)
}

func TestAdvise_FallsBackOnProviderError(t *testing.T) {
	svc := New(llm.NewMock(), testConfig(), nil)

	a, err := svc.Advise(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, a.Source)
	assert.NotEmpty(t, a.Tips)
}

func TestParseMinutes(t *testing.T) {
	assert.Equal(t, 20, parseMinutes("20 minutes daily"))
	assert.Equal(t, 0, parseMinutes("daily"))
}
