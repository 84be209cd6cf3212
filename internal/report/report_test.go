package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/quiz"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func session(at time.Time, score, total int, minutes float64, cats ...quiz.Category) StudySession {
	acc := 0.0
	if total > 0 {
		acc = float64(score) / float64(total) * 100
	}
	return StudySession{
		ID:             at.Format(time.RFC3339),
		UserID:         "u1",
		CompletedAt:    at,
		Score:          score,
		TotalQuestions: total,
		Accuracy:       acc,
		TimeSpent:      minutes,
		Categories:     cats,
	}
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 10, 0, 0, 0, time.UTC)
}

func findCategory(t *testing.T, r *Report, cat quiz.Category) CategoryAnalysis {
	t.Helper()
	for _, c := range r.Categories {
		if c.Category == cat {
			return c
		}
	}
	t.Fatalf("category %s not in report", cat)
	return CategoryAnalysis{}
}

func TestBuild_EmptyHistory(t *testing.T) {
	assert.Nil(t, Build(nil, testNow))
	assert.Nil(t, Build([]StudySession{}, testNow))
}

func TestBuild_SingleMasteredSession(t *testing.T) {
	r := Build([]StudySession{
		session(day(10), 8, 10, 12, quiz.CategoryHiragana),
	}, testNow)
	require.NotNil(t, r)

	assert.Equal(t, 80.0, r.Overall.AverageAccuracy)
	assert.Equal(t, 1, r.Overall.QuizzesCompleted)
	assert.InDelta(t, 0.2, r.Overall.TotalStudyHours, 1e-9)
	require.Len(t, r.Categories, 1)
	assert.Equal(t, StatusMastered, r.Categories[0].Status)
	assert.Equal(t, 10, r.Categories[0].QuestionsAnswered)
}

func TestBuild_WeightsSplitAcrossCategories(t *testing.T) {
	r := Build([]StudySession{
		session(day(9), 9, 10, 20, quiz.CategoryHiragana, quiz.CategoryGrammar),
		session(day(8), 5, 10, 10, quiz.CategoryHiragana),
	}, testNow)
	require.NotNil(t, r)

	hira := findCategory(t, r, quiz.CategoryHiragana)
	assert.InDelta(t, 63.333, hira.Accuracy, 0.001)
	assert.Equal(t, StatusGoodProgress, hira.Status)
	assert.Equal(t, 15, hira.QuestionsAnswered)
	assert.InDelta(t, 20.0, hira.TimeSpent, 1e-9)

	gram := findCategory(t, r, quiz.CategoryGrammar)
	assert.InDelta(t, 90.0, gram.Accuracy, 1e-9)
	assert.Equal(t, StatusMastered, gram.Status)
	assert.Equal(t, 5, gram.QuestionsAnswered)

	assert.Equal(t, 70.0, r.Overall.AverageAccuracy)
	assert.Equal(t, LevelElementary, r.Overall.Level)
}

func TestBuild_CategoryOrderAndAdvice(t *testing.T) {
	r := Build([]StudySession{
		session(day(10), 2, 10, 5, quiz.CategoryGrammar, quiz.CategoryKatakana),
	}, testNow)
	require.NotNil(t, r)
	require.Len(t, r.Categories, 2)
	assert.Equal(t, quiz.CategoryKatakana, r.Categories[0].Category)
	assert.Equal(t, quiz.CategoryGrammar, r.Categories[1].Category)
	assert.Equal(t, []string{
		"Focus on basic katakana characters and their readings",
		"Practice katakana daily for 15-20 minutes",
		"Use flashcards for repetitive learning",
	}, r.Categories[0].Recommendations)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelBeginner, LevelFor(0))
	assert.Equal(t, LevelBeginner, LevelFor(60))
	assert.Equal(t, LevelElementary, LevelFor(60.1))
	assert.Equal(t, LevelElementary, LevelFor(80))
	assert.Equal(t, LevelIntermediate, LevelFor(80.1))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusNeedsWork, StatusFor(59.9))
	assert.Equal(t, StatusGoodProgress, StatusFor(60))
	assert.Equal(t, StatusGoodProgress, StatusFor(79.9))
	assert.Equal(t, StatusMastered, StatusFor(80))
}

func TestBuild_Improvement(t *testing.T) {
	r := Build([]StudySession{
		session(day(9), 9, 10, 10, quiz.CategoryHiragana),
		session(day(1), 5, 10, 10, quiz.CategoryHiragana),
		session(day(9), 7, 10, 10, quiz.CategoryKatakana),
	}, testNow)
	require.NotNil(t, r)

	assert.InDelta(t, 40.0, findCategory(t, r, quiz.CategoryHiragana).Improvement, 1e-9)
	// no earlier week to compare against
	assert.Equal(t, 0.0, findCategory(t, r, quiz.CategoryKatakana).Improvement)
}

func TestWeeklyTrend(t *testing.T) {
	history := []StudySession{
		session(day(10), 8, 10, 5, quiz.CategoryHiragana),
		session(day(10), 10, 10, 7, quiz.CategoryHiragana),
		session(day(6), 5, 10, 3, quiz.CategoryGrammar),
		session(day(1), 5, 10, 3, quiz.CategoryGrammar),
	}
	trend := WeeklyTrend(history, testNow)
	require.Len(t, trend, TrendDays)

	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), trend[0].Date)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), trend[6].Date)

	assert.Equal(t, 2, trend[6].QuizzesTaken)
	assert.InDelta(t, 90.0, trend[6].Accuracy, 1e-9)
	assert.InDelta(t, 12.0, trend[6].StudyTime, 1e-9)

	assert.Equal(t, 1, trend[2].QuizzesTaken)
	assert.Equal(t, 0, trend[0].QuizzesTaken)
	assert.Equal(t, 0.0, trend[0].Accuracy)
}

func TestWeeklyTrend_AlwaysSevenPoints(t *testing.T) {
	assert.Len(t, WeeklyTrend(nil, testNow), TrendDays)
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []int
		want int
	}{
		{"through today", []int{10, 9, 8, 6}, 3},
		{"ends yesterday", []int{9, 8}, 2},
		{"broken", []int{7, 6}, 0},
		{"same day twice", []int{10, 10}, 1},
		{"none", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h []StudySession
			for _, d := range tt.days {
				h = append(h, session(day(d), 1, 1, 1, quiz.CategoryHiragana))
			}
			assert.Equal(t, tt.want, Streak(h, testNow))
		})
	}
}

func TestRecommendationsOrderedByPriority(t *testing.T) {
	r := Build([]StudySession{
		session(day(10), 9, 10, 5, quiz.CategoryVocabulary),
		session(day(10), 4, 10, 5, quiz.CategoryHiragana),
		session(day(10), 7, 10, 5, quiz.CategoryGrammar),
	}, testNow)
	require.NotNil(t, r)
	require.Len(t, r.Recommendations, 3)

	assert.Equal(t, PriorityHigh, r.Recommendations[0].Priority)
	assert.Equal(t, quiz.CategoryHiragana, r.Recommendations[0].Category)
	assert.Equal(t, "Focus on dakuten and handakuten characters (が, ざ, ぱ)", r.Recommendations[0].Suggestion)
	assert.Equal(t, "30 minutes daily", r.Recommendations[0].TimeRecommended)

	assert.Equal(t, PriorityMedium, r.Recommendations[1].Priority)
	assert.Equal(t, quiz.CategoryGrammar, r.Recommendations[1].Category)
	assert.Equal(t, PriorityLow, r.Recommendations[2].Priority)
	assert.Equal(t, "15 minutes daily", r.Recommendations[2].TimeRecommended)
}

func TestGoals(t *testing.T) {
	r := Build([]StudySession{
		session(day(9), 9, 10, 20, quiz.CategoryHiragana, quiz.CategoryGrammar),
		session(day(8), 5, 10, 10, quiz.CategoryHiragana),
	}, testNow)
	require.NotNil(t, r)

	assert.Equal(t, []string{
		"Achieve 85% accuracy in hiragana quizzes",
		"Complete 5 katakana-focused practice sessions",
		"Learn 20 new N5 vocabulary words",
	}, r.Goals.ShortTerm)
	assert.Len(t, r.Goals.LongTerm, 3)
}

func TestGoals_NoCategoriesUsesDefaults(t *testing.T) {
	r := Build([]StudySession{
		session(day(9), 6, 10, 15),
		session(day(8), 9, 10, 12),
	}, testNow)
	require.NotNil(t, r)
	require.Empty(t, r.Categories)

	assert.Equal(t, []string{
		"Achieve 85% accuracy in hiragana quizzes",
		"Complete 5 grammar-focused practice sessions",
		"Learn 20 new N5 vocabulary words",
	}, r.Goals.ShortTerm)
	for _, g := range r.Goals.ShortTerm {
		assert.NotContains(t, g, "95%")
	}
	assert.Len(t, r.Goals.LongTerm, 3)
}

func TestAdviceUsesCategoryIDs(t *testing.T) {
	r := Build([]StudySession{
		session(day(10), 7, 10, 5, quiz.CategoryVocabulary),
		session(day(10), 10, 10, 5, quiz.CategoryGrammar),
	}, testNow)
	require.NotNil(t, r)

	for _, c := range r.Categories {
		for _, line := range c.Recommendations {
			assert.NotContains(t, line, c.Category.DisplayName(), "advice names categories in lower case")
		}
	}
	assert.Contains(t, r.Categories[0].Recommendations, "Continue practicing vocabulary with varied question types")
	assert.Contains(t, r.Categories[1].Recommendations, "Challenge yourself with advanced grammar concepts")
}

func TestNewStudySession_WeakAndStrongAreas(t *testing.T) {
	stats := quiz.Stats{
		TotalQuestions: 10,
		Answered:       9,
		CorrectAnswers: 7,
		Accuracy:       7.0 / 9.0 * 100,
		CategoryBreakdown: map[quiz.Category]quiz.CategoryResult{
			quiz.CategoryHiragana:   {Correct: 3, Total: 3},
			quiz.CategoryVocabulary: {Correct: 1, Total: 2},
			quiz.CategoryKatakana:   {Correct: 3, Total: 4},
		},
	}
	cats := quiz.AllCategories()
	rec := NewStudySession("s1", "u1", stats, cats, 6.5, testNow)

	assert.Equal(t, 7, rec.Score)
	assert.Equal(t, 10, rec.TotalQuestions)
	assert.Equal(t, []quiz.Category{quiz.CategoryVocabulary}, rec.WeakAreas)
	assert.Equal(t, []quiz.Category{quiz.CategoryHiragana}, rec.StrongAreas)
	assert.Equal(t, cats, rec.Categories)
}

func TestRecordSession_NewestFirst(t *testing.T) {
	var h []StudySession
	h = RecordSession(h, StudySession{ID: "first"})
	h = RecordSession(h, StudySession{ID: "second"})
	require.Len(t, h, 2)
	assert.Equal(t, "second", h[0].ID)
	assert.Equal(t, "first", h[1].ID)
}
