package quiz

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// reverseShuffler reverses the slice, giving tests a known permutation.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

// testCatalog returns 3 questions per category, in category order.
// Option 0 is always correct.
func testCatalog() []Question {
	var out []Question
	for _, cat := range AllCategories() {
		for i := 1; i <= 3; i++ {
			out = append(out, Question{
				ID:            fmt.Sprintf("%s-%d", cat, i),
				Category:      cat,
				Prompt:        fmt.Sprintf("%s question %d", cat, i),
				Options:       []string{"right", "wrong", "also wrong", "nope"},
				CorrectAnswer: 0,
				Difficulty:    DifficultyEasy,
			})
		}
	}
	return out
}

func testEngine() (*Engine, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewEngine(clock, reverseShuffler{}), clock
}

func ids(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestStart_ExactCountFromSelectedCategories(t *testing.T) {
	e := NewEngine(nil, NewShuffler(rand.NewPCG(1, 2)))
	cfg := Config{
		QuestionCount: 5,
		Categories:    []Category{CategoryKatakana, CategoryGrammar},
		Randomize:     true,
	}

	for i := 0; i < 20; i++ {
		s, err := e.Start(testCatalog(), cfg)
		require.NoError(t, err)
		require.Equal(t, 5, s.Len())
		for _, q := range s.Questions() {
			assert.True(t, cfg.Includes(q.Category), "unexpected category %s", q.Category)
		}
	}
}

func TestStart_ShortPool(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(testCatalog(), Config{
		QuestionCount: 20,
		Categories:    []Category{CategoryHiragana},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Len(t, s.Answers(), 3)
}

func TestStart_InitialState(t *testing.T) {
	e, clock := testEngine()
	s, err := e.Start(testCatalog(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, s.Position())
	assert.Equal(t, 0, s.Score())
	assert.False(t, s.Completed())
	assert.Equal(t, clock.now, s.StartedAt())
	for _, a := range s.Answers() {
		assert.Equal(t, Unanswered, a)
	}
}

func TestStart_FilterThenTruncateInCatalogOrder(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(testCatalog(), Config{
		QuestionCount: 4,
		Categories:    []Category{CategoryHiragana, CategoryVocabulary},
	})
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"hiragana-1", "hiragana-2", "hiragana-3", "vocabulary-1"},
		ids(s.Questions()))
}

func TestStart_ShufflesBeforeTruncating(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(testCatalog(), Config{
		QuestionCount: 2,
		Categories:    []Category{CategoryHiragana, CategoryVocabulary},
		Randomize:     true,
	})
	require.NoError(t, err)
	// The reversed pool starts with the last vocabulary questions, which a
	// truncate-then-shuffle would never pick.
	assert.Equal(t, []string{"vocabulary-3", "vocabulary-2"}, ids(s.Questions()))
}

func TestStart_InvalidConfig(t *testing.T) {
	e, _ := testEngine()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no categories", Config{QuestionCount: 5}},
		{"zero count", Config{QuestionCount: 0, Categories: AllCategories()}},
		{"unknown category", Config{QuestionCount: 5, Categories: []Category{"kanji"}}},
		{"negative time limit", Config{QuestionCount: 5, Categories: AllCategories(), TimeLimit: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := e.Start(testCatalog(), tt.cfg)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestStart_EmptyPool(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(nil, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, s.Empty())

	_, ok := s.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, s.SubmitAnswer(0), ErrNoQuestions)

	s.Advance()
	s.Retreat()
	assert.False(t, s.Completed())
	assert.Equal(t, 0, s.Position())
	assert.Equal(t, float64(0), s.Progress())
}

func TestSubmitAnswer_ReanswerRecountsScore(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(testCatalog(), Config{QuestionCount: 3, Categories: AllCategories()})
	require.NoError(t, err)

	require.NoError(t, s.SubmitAnswer(0))
	st := s.Stats()
	assert.Equal(t, 1, st.Answered)
	assert.Equal(t, 1, s.Score())

	require.NoError(t, s.SubmitAnswer(2))
	st = s.Stats()
	assert.Equal(t, 1, st.Answered)
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 1, st.IncorrectAnswers)

	require.NoError(t, s.SubmitAnswer(0))
	require.NoError(t, s.SubmitAnswer(0))
	assert.Equal(t, 1, s.Score())
}

func TestSubmitAnswer_ChangeEarlierAnswer(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(testCatalog(), Config{QuestionCount: 3, Categories: AllCategories()})
	require.NoError(t, err)

	require.NoError(t, s.SubmitAnswer(0))
	s.Advance()
	require.NoError(t, s.SubmitAnswer(0))
	assert.Equal(t, 2, s.Score())

	s.Retreat()
	assert.Equal(t, 0, s.Answer())
	require.NoError(t, s.SubmitAnswer(1))
	assert.Equal(t, 1, s.Score())
}

func TestSubmitAnswer_OutOfRange(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(testCatalog(), DefaultConfig())
	require.NoError(t, err)

	assert.ErrorIs(t, s.SubmitAnswer(4), ErrInvalidOption)
	assert.ErrorIs(t, s.SubmitAnswer(-1), ErrInvalidOption)
	assert.Equal(t, Unanswered, s.Answer())
}

func TestAdvance_CompletesAtLastPosition(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(testCatalog(), Config{QuestionCount: 2, Categories: AllCategories()})
	require.NoError(t, err)

	s.Advance()
	assert.Equal(t, 1, s.Position())
	assert.True(t, s.IsLast())
	assert.False(t, s.Completed())

	s.Advance()
	assert.True(t, s.Completed())
	assert.Equal(t, 1, s.Position())

	before := s.Answers()
	s.Advance()
	assert.Equal(t, 1, s.Position())
	assert.ErrorIs(t, s.SubmitAnswer(0), ErrSessionCompleted)
	assert.Equal(t, before, s.Answers())
	assert.Equal(t, 0, s.Score())
}

func TestRetreat_FloorsAtZero(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(testCatalog(), DefaultConfig())
	require.NoError(t, err)

	s.Retreat()
	assert.Equal(t, 0, s.Position())

	s.Advance()
	s.Advance()
	s.Retreat()
	assert.Equal(t, 1, s.Position())
}

func TestFinish_CompletesMidway(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(testCatalog(), DefaultConfig())
	require.NoError(t, err)

	s.Advance()
	s.Finish()
	assert.True(t, s.Completed())
	assert.Equal(t, 1, s.Position())
}

func TestExpired(t *testing.T) {
	e, clock := testEngine()
	cfg := DefaultConfig()
	cfg.TimeLimit = 5
	s, err := e.Start(testCatalog(), cfg)
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	assert.False(t, s.Expired())
	clock.Advance(time.Minute)
	assert.True(t, s.Expired())

	untimed, err := e.Start(testCatalog(), DefaultConfig())
	require.NoError(t, err)
	clock.Advance(time.Hour)
	assert.False(t, untimed.Expired())
}

func TestProgress(t *testing.T) {
	e, _ := testEngine()
	s, err := e.Start(testCatalog(), Config{QuestionCount: 4, Categories: AllCategories()})
	require.NoError(t, err)

	assert.Equal(t, 25.0, s.Progress())
	s.Advance()
	assert.Equal(t, 50.0, s.Progress())
}

func TestReset_DiscardsState(t *testing.T) {
	e, _ := testEngine()
	cfg := Config{QuestionCount: 3, Categories: AllCategories()}
	s, err := e.Start(testCatalog(), cfg)
	require.NoError(t, err)
	require.NoError(t, s.SubmitAnswer(0))
	s.Advance()

	s, err = e.Reset(testCatalog(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Position())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, Unanswered, s.Answer())
}
