package quiz

import (
	"fmt"
	"slices"
	"time"
)

// Unanswered marks an answer slot with no submission.
const Unanswered = -1

// Engine builds quiz sessions. The zero value uses the system clock and
// the global random source.
type Engine struct {
	Clock    Clock
	Shuffler Shuffler
}

// NewEngine creates an Engine with the given collaborators. Nil values
// fall back to the system defaults.
func NewEngine(clock Clock, shuffler Shuffler) *Engine {
	return &Engine{Clock: clock, Shuffler: shuffler}
}

func (e *Engine) clock() Clock {
	if e == nil || e.Clock == nil {
		return SystemClock
	}
	return e.Clock
}

func (e *Engine) shuffler() Shuffler {
	if e == nil || e.Shuffler == nil {
		return globalShuffler{}
	}
	return e.Shuffler
}

// Start filters the catalog by the configured categories, shuffles the
// whole filtered pool when Randomize is set, and then keeps the first
// QuestionCount entries. A pool smaller than QuestionCount yields a
// shorter session; an empty pool yields an empty session.
func (e *Engine) Start(catalog []Question, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool := make([]Question, 0, len(catalog))
	for _, q := range catalog {
		if cfg.Includes(q.Category) {
			pool = append(pool, q)
		}
	}

	if cfg.Randomize {
		e.shuffler().Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
	}

	if len(pool) > cfg.QuestionCount {
		pool = pool[:cfg.QuestionCount]
	}

	answers := make([]int, len(pool))
	for i := range answers {
		answers[i] = Unanswered
	}

	return &Session{
		config:    cfg,
		questions: pool,
		answers:   answers,
		startedAt: e.clock().Now(),
		clock:     e.clock(),
	}, nil
}

// Reset discards any prior session and starts a fresh one.
func (e *Engine) Reset(catalog []Question, cfg Config) (*Session, error) {
	return e.Start(catalog, cfg)
}

// Session is the working state of one quiz attempt. It is not safe for
// concurrent use.
type Session struct {
	config    Config
	questions []Question
	answers   []int
	position  int
	score     int
	completed bool
	startedAt time.Time
	clock     Clock
}

// Config returns the configuration the session was built from.
func (s *Session) Config() Config { return s.config }

// Len returns the number of questions in the session.
func (s *Session) Len() int { return len(s.questions) }

// Empty reports whether no question matched the configuration.
func (s *Session) Empty() bool { return len(s.questions) == 0 }

// Position returns the zero-based index of the current question.
func (s *Session) Position() int { return s.position }

// Score returns the number of correct answers recorded.
func (s *Session) Score() int { return s.score }

// Completed reports whether the session has finished.
func (s *Session) Completed() bool { return s.completed }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// TimeLimit returns the session's time limit, zero when untimed.
func (s *Session) TimeLimit() time.Duration {
	return time.Duration(s.config.TimeLimit) * time.Minute
}

// Questions returns a copy of the question sequence.
func (s *Session) Questions() []Question { return slices.Clone(s.questions) }

// Answers returns a copy of the answer record.
func (s *Session) Answers() []int { return slices.Clone(s.answers) }

// Current returns the question at the current position. ok is false for
// an empty session.
func (s *Session) Current() (q Question, ok bool) {
	if s.Empty() {
		return Question{}, false
	}
	return s.questions[s.position], true
}

// Answer returns the recorded answer at the current position, or
// Unanswered.
func (s *Session) Answer() int {
	if s.Empty() {
		return Unanswered
	}
	return s.answers[s.position]
}

// IsLast reports whether the current position is the final question.
func (s *Session) IsLast() bool {
	return s.position == len(s.questions)-1
}

// Progress returns the percentage through the quiz, counting the current
// question as reached.
func (s *Session) Progress() float64 {
	if s.Empty() {
		return 0
	}
	return float64(s.position+1) / float64(len(s.questions)) * 100
}

// SubmitAnswer records option at the current position, replacing any
// earlier answer there, and recounts the score.
func (s *Session) SubmitAnswer(option int) error {
	if s.completed {
		return ErrSessionCompleted
	}
	if s.Empty() {
		return ErrNoQuestions
	}
	q := s.questions[s.position]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}
	s.answers[s.position] = option
	s.score = s.recount()
	return nil
}

func (s *Session) recount() int {
	n := 0
	for i, a := range s.answers {
		if a != Unanswered && s.questions[i].IsCorrect(a) {
			n++
		}
	}
	return n
}

// Advance moves to the next question. Advancing from the last question
// completes the session and leaves the position on that question.
func (s *Session) Advance() {
	if s.completed || s.Empty() {
		return
	}
	if s.position+1 >= len(s.questions) {
		s.completed = true
		return
	}
	s.position++
}

// Retreat moves to the previous question, stopping at the first.
func (s *Session) Retreat() {
	if s.position > 0 {
		s.position--
	}
}

// Finish completes the session at its current position. Used when the
// time limit runs out.
func (s *Session) Finish() {
	if s.Empty() {
		return
	}
	s.completed = true
}

// Expired reports whether a timed session has run past its limit.
func (s *Session) Expired() bool {
	limit := s.TimeLimit()
	if limit <= 0 {
		return false
	}
	return s.clock.Now().Sub(s.startedAt) >= limit
}
