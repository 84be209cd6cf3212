package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/kotoba/internal/quiz"
)

var errQuizNotFound = errors.New("quiz not found")

// liveQuiz is one in-progress quiz. mu guards session and recorded;
// quiz.Session itself is not safe for concurrent use. lastUsed is
// guarded by the registry lock.
type liveQuiz struct {
	mu       sync.Mutex
	id       string
	owner    string
	created  time.Time
	lastUsed time.Time
	session  *quiz.Session
	recorded bool
}

// registry holds live quizzes for all connected clients. A quiz untouched
// for longer than ttl is dropped.
type registry struct {
	mu      sync.Mutex
	quizzes map[string]*liveQuiz
	ttl     time.Duration
	now     func() time.Time
}

func newRegistry(ttl time.Duration, now func() time.Time) *registry {
	return &registry{quizzes: make(map[string]*liveQuiz), ttl: ttl, now: now}
}

func (r *registry) add(owner string, s *quiz.Session) *liveQuiz {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	q := &liveQuiz{id: uuid.New().String(), owner: owner, created: now, lastUsed: now, session: s}
	r.quizzes[q.id] = q
	return q
}

// get returns the quiz when it exists, belongs to owner and has not
// gone stale, and marks it used.
func (r *registry) get(id, owner string) (*liveQuiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quizzes[id]
	if !ok || q.owner != owner {
		return nil, errQuizNotFound
	}
	now := r.now()
	if r.stale(q, now) {
		delete(r.quizzes, id)
		return nil, errQuizNotFound
	}
	q.lastUsed = now
	return q, nil
}

func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.quizzes)
}

func (r *registry) sweepLocked(now time.Time) {
	for id, q := range r.quizzes {
		if r.stale(q, now) {
			delete(r.quizzes, id)
		}
	}
}

func (r *registry) stale(q *liveQuiz, now time.Time) bool {
	return now.Sub(q.lastUsed) > r.ttl
}
