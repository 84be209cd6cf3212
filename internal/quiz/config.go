package quiz

import (
	"errors"
	"fmt"
	"slices"
)

// Errors returned by the engine.
var (
	ErrInvalidConfig    = errors.New("invalid quiz configuration")
	ErrNoQuestions      = errors.New("no questions available")
	ErrSessionCompleted = errors.New("quiz session already completed")
	ErrInvalidOption    = errors.New("option index out of range")
)

// Setup choices offered by the configuration screen.
var (
	QuestionCountChoices = []int{5, 10, 15, 20}
	TimeLimitChoices     = []int{0, 5, 10, 15, 20}
)

// Config describes the quiz a user wants to take.
type Config struct {
	// QuestionCount is the maximum number of questions in the session.
	QuestionCount int `json:"questionCount"`

	// Categories restricts the pool. Must be non-empty.
	Categories []Category `json:"categories"`

	// TimeLimit in minutes. Zero means untimed.
	TimeLimit int `json:"timeLimit,omitempty"`

	// Randomize shuffles the filtered pool before it is truncated.
	Randomize bool `json:"randomize"`
}

// DefaultConfig returns the setup defaults: 10 questions from every
// category, untimed, shuffled.
func DefaultConfig() Config {
	return Config{
		QuestionCount: 10,
		Categories:    AllCategories(),
		Randomize:     true,
	}
}

// Validate returns an error wrapping ErrInvalidConfig if the config
// cannot produce a session.
func (c Config) Validate() error {
	if c.QuestionCount <= 0 {
		return fmt.Errorf("%w: question count must be positive, got %d", ErrInvalidConfig, c.QuestionCount)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: select at least one category", ErrInvalidConfig)
	}
	for _, cat := range c.Categories {
		if !cat.Valid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidConfig, cat)
		}
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("%w: time limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Includes reports whether cat is selected.
func (c Config) Includes(cat Category) bool {
	return slices.Contains(c.Categories, cat)
}
