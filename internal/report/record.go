package report

import (
	"time"

	"github.com/abhisek/kotoba/internal/quiz"
)

// NewStudySession builds the record for a completed quiz. Weak and strong
// areas only consider categories answered in this quiz.
func NewStudySession(id, userID string, stats quiz.Stats, categories []quiz.Category, minutes float64, at time.Time) StudySession {
	rec := StudySession{
		ID:             id,
		UserID:         userID,
		CompletedAt:    at,
		Score:          stats.CorrectAnswers,
		TotalQuestions: stats.TotalQuestions,
		Accuracy:       stats.Accuracy,
		TimeSpent:      minutes,
		Categories:     append([]quiz.Category(nil), categories...),
	}
	for _, cat := range stats.Categories() {
		acc := stats.CategoryBreakdown[cat].Accuracy()
		if acc < WeakAreaThreshold {
			rec.WeakAreas = append(rec.WeakAreas, cat)
		}
		if acc >= StrongAreaThreshold {
			rec.StrongAreas = append(rec.StrongAreas, cat)
		}
	}
	return rec
}

// RecordSession returns history with rec in front. History is kept
// newest-first.
func RecordSession(history []StudySession, rec StudySession) []StudySession {
	out := make([]StudySession, 0, len(history)+1)
	out = append(out, rec)
	return append(out, history...)
}
