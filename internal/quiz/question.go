package quiz

import (
	"errors"
	"fmt"
)

// Category is one of the fixed question types.
type Category string

const (
	CategoryHiragana   Category = "hiragana"
	CategoryKatakana   Category = "katakana"
	CategoryVocabulary Category = "vocabulary"
	CategoryGrammar    Category = "grammar"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryHiragana,
		CategoryKatakana,
		CategoryVocabulary,
		CategoryGrammar,
	}
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryHiragana, CategoryKatakana, CategoryVocabulary, CategoryGrammar:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for a category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryHiragana:
		return "Hiragana"
	case CategoryKatakana:
		return "Katakana"
	case CategoryVocabulary:
		return "Vocabulary"
	case CategoryGrammar:
		return "Grammar"
	default:
		return string(c)
	}
}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Difficulty is the self-assessed difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is an immutable catalog entry.
type Question struct {
	ID            string     `json:"id"`
	Category      Category   `json:"category"`
	Prompt        string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Explanation   string     `json:"explanation,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
}

// IsCorrect reports whether option is the correct answer.
func (q Question) IsCorrect(option int) bool {
	return option == q.CorrectAnswer
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	return q.Options[q.CorrectAnswer]
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if q.ID == "" {
		return errors.New("question id is empty")
	}
	if !q.Category.Valid() {
		return fmt.Errorf("question %s: unknown category %q", q.ID, q.Category)
	}
	if q.Prompt == "" {
		return fmt.Errorf("question %s: prompt is empty", q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %s: need at least 2 options, got %d", q.ID, len(q.Options))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("question %s: correct answer %d out of range", q.ID, q.CorrectAnswer)
	}
	switch q.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("question %s: difficulty must be \"easy\", \"medium\", or \"hard\"", q.ID)
	}
	return nil
}
