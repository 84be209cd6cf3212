package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// LLMEventRepo implements EventRepo over the llm_requests table.
type LLMEventRepo struct {
	s *Store
}

var _ EventRepo = (*LLMEventRepo)(nil)

func (r *LLMEventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := r.s.builder().
		Insert("llm_requests").
		Columns("sequence", "created_at", "provider", "model", "purpose",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UnixMicro(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage).
		Query()

	if err := r.s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// Query returns events newest first.
func (r *LLMEventRepo) Query(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := r.s.builder().
		Select("id", "sequence", "created_at", "provider", "model", "purpose",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		From(r.s.builder().Table("llm_requests")).
		OrderBy(entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if opts.Purpose != "" {
		preds = append(preds, entsql.EQ("purpose", opts.Purpose))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", opts.From.UnixMicro()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.s.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var (
			e  LLMRequestEvent
			ts int64
		)
		err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		e.Timestamp = fromMicros(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Usage aggregates request counts and tokens per provider and model.
func (r *LLMEventRepo) Usage(ctx context.Context) ([]ModelUsage, error) {
	events, err := r.Query(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}

	index := make(map[[2]string]int)
	var out []ModelUsage
	for _, e := range events {
		key := [2]string{e.Provider, e.Model}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, ModelUsage{Provider: e.Provider, Model: e.Model})
		}
		u := &out[i]
		u.Requests++
		if !e.Success {
			u.Failures++
		}
		u.InputTokens += int64(e.InputTokens)
		u.OutputTokens += int64(e.OutputTokens)
	}
	return out, nil
}
