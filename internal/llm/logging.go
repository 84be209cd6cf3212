package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/store"
)

type logging struct {
	inner  Provider
	events store.EventRepo
	log    *zap.Logger
}

// WithLogging records every request in events and on log. Either may be nil.
func WithLogging(p Provider, events store.EventRepo, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &logging{inner: p, events: events, log: log}
}

func (l *logging) Name() string  { return l.inner.Name() }
func (l *logging) Model() string { return l.inner.Model() }

func (l *logging) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Complete(ctx, req)
	elapsed := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:  l.inner.Name(),
		Model:     l.inner.Model(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: elapsed.Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}

	fields := []zap.Field{
		zap.String("provider", data.Provider),
		zap.String("model", data.Model),
		zap.String("purpose", data.Purpose),
		zap.Duration("latency", elapsed),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.log.Debug("llm request", fields...)
	}

	if l.events != nil {
		if logErr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.log.Warn("record llm request", zap.Error(logErr))
		}
	}
	return resp, err
}
