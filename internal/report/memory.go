package report

import (
	"context"
	"sync"
)

// MemoryStore is a process-local HistoryStore.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]StudySession
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]StudySession)}
}

func (m *MemoryStore) AppendSession(_ context.Context, s StudySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = RecordSession(m.sessions[s.UserID], s)
	return nil
}

func (m *MemoryStore) ListSessions(_ context.Context, userID string) ([]StudySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StudySession(nil), m.sessions[userID]...), nil
}
