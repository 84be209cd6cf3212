package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/quiz"
)

// HistoryStore persists study sessions per user.
type HistoryStore interface {
	AppendSession(ctx context.Context, s StudySession) error

	// ListSessions returns the user's sessions newest-first.
	ListSessions(ctx context.Context, userID string) ([]StudySession, error)
}

// Tracker records completed quizzes and builds reports from the stored
// history.
type Tracker struct {
	store  HistoryStore
	clock  quiz.Clock
	logger *zap.Logger
}

// NewTracker creates a Tracker. A nil clock uses the system clock.
func NewTracker(store HistoryStore, clock quiz.Clock, logger *zap.Logger) *Tracker {
	if clock == nil {
		clock = quiz.SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{store: store, clock: clock, logger: logger}
}

// Record stores the summary of a completed quiz.
func (t *Tracker) Record(ctx context.Context, userID string, stats quiz.Stats, categories []quiz.Category, minutes float64) (StudySession, error) {
	rec := NewStudySession(uuid.New().String(), userID, stats, categories, minutes, t.clock.Now())
	if err := t.store.AppendSession(ctx, rec); err != nil {
		return StudySession{}, fmt.Errorf("record study session: %w", err)
	}
	t.logger.Info("study session recorded",
		zap.String("user_id", userID),
		zap.String("session_id", rec.ID),
		zap.Int("score", rec.Score),
		zap.Int("total", rec.TotalQuestions),
		zap.Float64("accuracy", rec.Accuracy),
	)
	return rec, nil
}

// RecordQuiz records a completed quiz session.
func (t *Tracker) RecordQuiz(ctx context.Context, userID string, s *quiz.Session) (StudySession, error) {
	st := s.Stats()
	return t.Record(ctx, userID, st, s.Config().Categories, st.TimeSpent)
}

// History returns the user's sessions newest-first.
func (t *Tracker) History(ctx context.Context, userID string) ([]StudySession, error) {
	h, err := t.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}
	return h, nil
}

// Report builds the user's study report. It returns nil with no error
// when the user has no history yet.
func (t *Tracker) Report(ctx context.Context, userID string) (*Report, error) {
	h, err := t.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Build(h, t.clock.Now()), nil
}
