package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/kotoba/internal/config"
	"github.com/abhisek/kotoba/internal/store"
)

type memEvents struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
}

func (m *memEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
	return nil
}

func TestLogging_RecordsSuccess(t *testing.T) {
	events := &memEvents{}
	mock := NewMock(MockResponse{
		Content: json.RawMessage(`{}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 34},
	})
	p := WithLogging(mock, events, zap.NewNop())

	_, err := p.Complete(WithPurpose(context.Background(), "coach"), Request{})
	require.NoError(t, err)

	require.Len(t, events.events, 1)
	ev := events.events[0]
	assert.Equal(t, "mock", ev.Provider)
	assert.Equal(t, "coach", ev.Purpose)
	assert.True(t, ev.Success)
	assert.Equal(t, 12, ev.InputTokens)
	assert.Equal(t, 34, ev.OutputTokens)
}

func TestLogging_RecordsFailure(t *testing.T) {
	events := &memEvents{}
	core, logs := observer.New(zap.WarnLevel)
	mock := NewMock(MockResponse{Err: unavailable(errors.New("down"))})
	p := WithLogging(mock, events, zap.New(core))

	_, err := p.Complete(context.Background(), Request{})
	require.Error(t, err)

	require.Len(t, events.events, 1)
	assert.False(t, events.events[0].Success)
	assert.Equal(t, "unknown", events.events[0].Purpose)
	assert.Contains(t, events.events[0].ErrorMessage, "down")
	assert.Equal(t, 1, logs.FilterMessage("llm request failed").Len())
}

func TestNew_NoProvider(t *testing.T) {
	p, err := New(context.Background(), coachConfig(""), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNew_Mock(t *testing.T) {
	p, err := New(context.Background(), coachConfig("mock"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(context.Background(), coachConfig("llama"), nil, nil)
	assert.Error(t, err)
}

func TestNew_MissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := New(context.Background(), coachConfig("anthropic"), nil, nil)
	assert.Error(t, err)
}

func coachConfig(provider string) config.Coach {
	cfg := config.Default().Coach
	cfg.Provider = provider
	return cfg
}
