package store

import (
	"context"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/report"
)

// HistoryRepo stores completed study sessions. It implements
// report.HistoryStore.
type HistoryRepo struct {
	s *Store
}

var _ report.HistoryStore = (*HistoryRepo)(nil)

var historyColumns = []string{
	"id", "user_id", "completed_at", "score", "total_questions",
	"accuracy", "time_spent", "categories", "weak_areas", "strong_areas",
}

func (r *HistoryRepo) AppendSession(ctx context.Context, rec report.StudySession) error {
	seq, err := r.s.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := r.s.builder().
		Insert("study_sessions").
		Columns(append([]string{"sequence"}, historyColumns...)...).
		Values(
			seq,
			rec.ID,
			rec.UserID,
			toMicros(rec.CompletedAt),
			rec.Score,
			rec.TotalQuestions,
			rec.Accuracy,
			rec.TimeSpent,
			joinCategories(rec.Categories),
			joinCategories(rec.WeakAreas),
			joinCategories(rec.StrongAreas),
		).
		Query()

	if err := r.s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("insert study session: %w", err)
	}
	return nil
}

// ListSessions returns the user's sessions, newest first.
func (r *HistoryRepo) ListSessions(ctx context.Context, userID string) ([]report.StudySession, error) {
	return r.list(ctx, userID, 0)
}

// Recent returns at most limit sessions, newest first.
func (r *HistoryRepo) Recent(ctx context.Context, userID string, limit int) ([]report.StudySession, error) {
	return r.list(ctx, userID, limit)
}

func (r *HistoryRepo) list(ctx context.Context, userID string, limit int) ([]report.StudySession, error) {
	sel := r.s.builder().
		Select(historyColumns...).
		From(r.s.builder().Table("study_sessions")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.s.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query study sessions: %w", err)
	}
	defer rows.Close()

	var out []report.StudySession
	for rows.Next() {
		var (
			rec                      report.StudySession
			completedAt              int64
			categories, weak, strong string
		)
		err := rows.Scan(
			&rec.ID, &rec.UserID, &completedAt, &rec.Score, &rec.TotalQuestions,
			&rec.Accuracy, &rec.TimeSpent, &categories, &weak, &strong,
		)
		if err != nil {
			return nil, fmt.Errorf("scan study session: %w", err)
		}
		rec.CompletedAt = fromMicros(completedAt)
		rec.Categories = splitCategories(categories)
		rec.WeakAreas = splitCategories(weak)
		rec.StrongAreas = splitCategories(strong)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate study sessions: %w", err)
	}
	return out, nil
}

// DeleteSessions removes all of a user's sessions and returns how many
// were deleted.
func (r *HistoryRepo) DeleteSessions(ctx context.Context, userID string) (int64, error) {
	query, args := r.s.builder().
		Delete("study_sessions").
		Where(entsql.EQ("user_id", userID)).
		Query()

	var res entsql.Result
	if err := r.s.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("delete study sessions: %w", err)
	}
	return res.RowsAffected()
}

func joinCategories(cats []quiz.Category) string {
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func splitCategories(s string) []quiz.Category {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]quiz.Category, len(parts))
	for i, p := range parts {
		out[i] = quiz.Category(p)
	}
	return out
}
