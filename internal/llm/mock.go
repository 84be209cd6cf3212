package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// Mock returns scripted replies in order and records every request.
// Content is validated against the request schema like a real provider.
type Mock struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []Request
}

// NewMock creates a Mock that replies with responses in order.
func NewMock(responses ...MockResponse) *Mock {
	return &Mock{responses: responses}
}

func (m *Mock) Name() string  { return "mock" }
func (m *Mock) Model() string { return "mock" }

// Complete pops the next reply. An empty queue reports ErrUnavailable.
func (m *Mock) Complete(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.responses) == 0 {
		return nil, unavailable(nil)
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return finish(req, next.Content, "mock", next.Usage, false)
}

// Add queues another reply.
func (m *Mock) Add(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// Calls returns a copy of the recorded requests.
func (m *Mock) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
