package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryUsers is a process-local UserStore.
type MemoryUsers struct {
	mu    sync.Mutex
	users map[string]User // by email
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]User)}
}

func (m *MemoryUsers) UserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *MemoryUsers) InsertUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return ErrEmailExists
	}
	m.users[u.Email] = *u
	return nil
}

func (m *MemoryUsers) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, u := range m.users {
		if u.ID == userID {
			u.LastLoginAt = at
			m.users[email] = u
			return nil
		}
	}
	return ErrUserNotFound
}

// MemorySessions is a process-local SessionStore.
type MemorySessions struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{values: make(map[string]string)}
}

func (m *MemorySessions) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemorySessions) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemorySessions) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
