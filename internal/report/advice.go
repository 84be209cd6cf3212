package report

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/abhisek/kotoba/internal/quiz"
)

var focusTips = map[quiz.Category]string{
	quiz.CategoryHiragana:   "Focus on dakuten and handakuten characters (が, ざ, ぱ)",
	quiz.CategoryKatakana:   "Drill long vowels and small characters in loanwords (ー, ッ, ャ)",
	quiz.CategoryVocabulary: "Expand daily vocabulary with common N5 words",
	quiz.CategoryGrammar:    "Practice particle usage (は, が, を, に)",
}

var dailyTime = map[Priority]string{
	PriorityHigh:   "30 minutes daily",
	PriorityMedium: "20 minutes daily",
	PriorityLow:    "15 minutes daily",
}

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

func priorityFor(s Status) Priority {
	switch s {
	case StatusNeedsWork:
		return PriorityHigh
	case StatusGoodProgress:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// recommend produces one recommendation per analyzed category, weakest
// first.
func recommend(categories []CategoryAnalysis) []Recommendation {
	sorted := slices.Clone(categories)
	slices.SortStableFunc(sorted, func(a, b CategoryAnalysis) int {
		return cmp.Compare(a.Accuracy, b.Accuracy)
	})

	out := make([]Recommendation, 0, len(sorted))
	for _, c := range sorted {
		p := priorityFor(c.Status)
		tip, ok := focusTips[c.Category]
		if !ok {
			tip = fmt.Sprintf("Review your %s questions", c.Category)
		}
		out = append(out, Recommendation{
			Priority:        p,
			Category:        c.Category,
			Suggestion:      tip,
			TimeRecommended: dailyTime[p],
		})
	}
	slices.SortStableFunc(out, func(a, b Recommendation) int {
		return cmp.Compare(priorityRank[a.Priority], priorityRank[b.Priority])
	})
	return out
}

// defaultShortTermGoals apply until a category has been practiced.
var defaultShortTermGoals = []string{
	"Achieve 85% accuracy in hiragana quizzes",
	"Complete 5 grammar-focused practice sessions",
	"Learn 20 new N5 vocabulary words",
}

var longTermGoals = []string{
	"Master all N5 hiragana and katakana",
	"Understand basic Japanese sentence structure",
	"Build a vocabulary of 500+ N5 words",
}

// goals targets the weakest and the least practiced categories.
func goals(categories []CategoryAnalysis) Goals {
	if len(categories) == 0 {
		return Goals{
			ShortTerm: slices.Clone(defaultShortTermGoals),
			LongTerm:  slices.Clone(longTermGoals),
		}
	}

	weakest := quiz.CategoryHiragana
	lowest := 101.0
	for _, c := range categories {
		if c.Accuracy < lowest {
			weakest, lowest = c.Category, c.Accuracy
		}
	}

	answered := make(map[quiz.Category]int)
	for _, c := range categories {
		answered[c.Category] = c.QuestionsAnswered
	}
	leastPracticed := quiz.CategoryGrammar
	fewest := -1
	for _, cat := range quiz.AllCategories() {
		if n := answered[cat]; fewest < 0 || n < fewest {
			leastPracticed, fewest = cat, n
		}
	}

	target := 85
	if lowest >= 85 {
		target = 95
	}

	return Goals{
		ShortTerm: []string{
			fmt.Sprintf("Achieve %d%% accuracy in %s quizzes", target, weakest),
			fmt.Sprintf("Complete 5 %s-focused practice sessions", leastPracticed),
			"Learn 20 new N5 vocabulary words",
		},
		LongTerm: slices.Clone(longTermGoals),
	}
}
