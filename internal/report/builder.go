package report

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/abhisek/kotoba/internal/quiz"
)

// TrendDays is the length of the recent-activity trend.
const TrendDays = 7

// Build aggregates a history into a report. It returns nil when the
// history is empty.
func Build(history []StudySession, now time.Time) *Report {
	if len(history) == 0 {
		return nil
	}

	categories := analyzeCategories(history, now)
	return &Report{
		GeneratedAt:     now,
		Overall:         overall(history, now),
		Categories:      categories,
		WeeklyTrend:     WeeklyTrend(history, now),
		Recommendations: recommend(categories),
		Goals:           goals(categories),
	}
}

func overall(history []StudySession, now time.Time) OverallProgress {
	var minutes, accuracy float64
	for _, s := range history {
		minutes += s.TimeSpent
		accuracy += s.Accuracy
	}
	avg := accuracy / float64(len(history))
	return OverallProgress{
		TotalStudyHours:  minutes / 60,
		QuizzesCompleted: len(history),
		AverageAccuracy:  avg,
		StudyStreak:      Streak(history, now),
		Level:            LevelFor(avg),
	}
}

// LevelFor maps an average accuracy to a level.
func LevelFor(accuracy float64) Level {
	switch {
	case accuracy > 80:
		return LevelIntermediate
	case accuracy > 60:
		return LevelElementary
	default:
		return LevelBeginner
	}
}

// StatusFor classifies a category accuracy.
func StatusFor(accuracy float64) Status {
	switch {
	case accuracy < 60:
		return StatusNeedsWork
	case accuracy < 80:
		return StatusGoodProgress
	default:
		return StatusMastered
	}
}

// tally accumulates a weighted correct/total pair.
type tally struct {
	correct, total, minutes float64
}

func (t tally) accuracy() float64 {
	if t.total == 0 {
		return 0
	}
	return t.correct / t.total * 100
}

// weigh splits each session evenly across the categories it covered.
func weigh(history []StudySession, keep func(StudySession) bool) map[quiz.Category]*tally {
	out := make(map[quiz.Category]*tally)
	for _, s := range history {
		if len(s.Categories) == 0 || (keep != nil && !keep(s)) {
			continue
		}
		share := 1 / float64(len(s.Categories))
		for _, cat := range s.Categories {
			t, ok := out[cat]
			if !ok {
				t = &tally{}
				out[cat] = t
			}
			t.correct += float64(s.Score) * share
			t.total += float64(s.TotalQuestions) * share
			t.minutes += s.TimeSpent * share
		}
	}
	return out
}

func analyzeCategories(history []StudySession, now time.Time) []CategoryAnalysis {
	all := weigh(history, nil)

	today := startOfDay(now)
	weekStart := today.AddDate(0, 0, -(TrendDays - 1))
	prevStart := weekStart.AddDate(0, 0, -TrendDays)
	thisWeek := weigh(history, func(s StudySession) bool {
		return !s.CompletedAt.In(now.Location()).Before(weekStart)
	})
	lastWeek := weigh(history, func(s StudySession) bool {
		at := s.CompletedAt.In(now.Location())
		return !at.Before(prevStart) && at.Before(weekStart)
	})

	var out []CategoryAnalysis
	for _, cat := range orderedCategories(all) {
		t := all[cat]
		acc := t.accuracy()
		status := StatusFor(acc)
		a := CategoryAnalysis{
			Category:          cat,
			Accuracy:          acc,
			QuestionsAnswered: int(math.Round(t.total)),
			TimeSpent:         t.minutes,
			Status:            status,
			Recommendations:   categoryAdvice(status, cat),
		}
		if cur, ok := thisWeek[cat]; ok {
			if prev, ok := lastWeek[cat]; ok {
				a.Improvement = cur.accuracy() - prev.accuracy()
			}
		}
		out = append(out, a)
	}
	return out
}

// orderedCategories lists the known categories first in display order,
// then anything else found in stored history.
func orderedCategories(m map[quiz.Category]*tally) []quiz.Category {
	var out []quiz.Category
	seen := make(map[quiz.Category]bool)
	for _, cat := range quiz.AllCategories() {
		if _, ok := m[cat]; ok {
			out = append(out, cat)
			seen[cat] = true
		}
	}
	var extra []quiz.Category
	for cat := range m {
		if !seen[cat] {
			extra = append(extra, cat)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

func categoryAdvice(status Status, cat quiz.Category) []string {
	name := string(cat)
	switch status {
	case StatusNeedsWork:
		return []string{
			fmt.Sprintf("Focus on basic %s characters and their readings", name),
			fmt.Sprintf("Practice %s daily for 15-20 minutes", name),
			"Use flashcards for repetitive learning",
		}
	case StatusGoodProgress:
		return []string{
			fmt.Sprintf("Continue practicing %s with varied question types", name),
			"Focus on speed and accuracy improvement",
		}
	default:
		return []string{
			"Maintain proficiency with periodic review",
			fmt.Sprintf("Challenge yourself with advanced %s concepts", name),
		}
	}
}
