package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/quiz"
)

func TestTracker_RecordAndReport(t *testing.T) {
	store := NewMemoryStore()
	clock := quiz.ClockFunc(func() time.Time { return testNow })
	tr := NewTracker(store, clock, nil)

	r, err := tr.Report(t.Context(), "u1")
	require.NoError(t, err)
	assert.Nil(t, r)

	catalog := []quiz.Question{
		{ID: "h1", Category: quiz.CategoryHiragana, Prompt: "あ", Options: []string{"a", "i"}, CorrectAnswer: 0, Difficulty: quiz.DifficultyEasy},
		{ID: "g1", Category: quiz.CategoryGrammar, Prompt: "は", Options: []string{"wa", "ga"}, CorrectAnswer: 0, Difficulty: quiz.DifficultyEasy},
	}
	s, err := quiz.NewEngine(clock, nil).Start(catalog, quiz.Config{
		QuestionCount: 2,
		Categories:    []quiz.Category{quiz.CategoryHiragana, quiz.CategoryGrammar},
	})
	require.NoError(t, err)
	require.NoError(t, s.SubmitAnswer(0))
	s.Advance()
	require.NoError(t, s.SubmitAnswer(1))
	s.Advance()
	require.True(t, s.Completed())

	rec, err := tr.RecordQuiz(t.Context(), "u1", s)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 1, rec.Score)
	assert.Equal(t, testNow, rec.CompletedAt)
	assert.Equal(t, []quiz.Category{quiz.CategoryGrammar}, rec.WeakAreas)

	r, err = tr.Report(t.Context(), "u1")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 1, r.Overall.QuizzesCompleted)
	assert.Equal(t, 50.0, r.Overall.AverageAccuracy)
	assert.Equal(t, 1, r.Overall.StudyStreak)

	other, err := tr.Report(t.Context(), "u2")
	require.NoError(t, err)
	assert.Nil(t, other)
}
