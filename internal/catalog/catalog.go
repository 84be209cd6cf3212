// Package catalog supplies the question bank used to build quizzes.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/kotoba/internal/quiz"
)

//go:embed questions.json
var builtinJSON []byte

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://kotoba/questions.json"

// Provider supplies an ordered list of questions.
type Provider interface {
	Questions(ctx context.Context) ([]quiz.Question, error)
}

// Static is a Provider over a fixed question list.
type Static []quiz.Question

func (s Static) Questions(_ context.Context) ([]quiz.Question, error) {
	return append([]quiz.Question(nil), s...), nil
}

var (
	builtinOnce sync.Once
	builtin     Static
	builtinErr  error
)

// Builtin returns the embedded question bank.
func Builtin() (Static, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Parse(builtinJSON)
	})
	return builtin, builtinErr
}

// Open returns the bank at path, or the builtin bank when path is empty.
func Open(path string) (Static, error) {
	if path == "" {
		return Builtin()
	}
	return LoadFile(path)
}

// LoadFile reads and validates a JSON question bank.
func LoadFile(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	qs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return qs, nil
}

type bankFile struct {
	Questions []quiz.Question `json:"questions"`
}

// Parse decodes a JSON question bank, checking it against the bank schema
// and each question's invariants.
func Parse(data []byte) (Static, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate question bank: %w", err)
	}

	var bank bankFile
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	seen := make(map[string]bool, len(bank.Questions))
	for _, q := range bank.Questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}
	return Static(bank.Questions), nil
}

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile(schemaURL)
	})
	return schemaCompiled, schemaErr
}

// Counts returns the number of questions per category.
func Counts(qs []quiz.Question) map[quiz.Category]int {
	out := make(map[quiz.Category]int)
	for _, q := range qs {
		out[q.Category]++
	}
	return out
}

// Filter returns the questions in the given categories, keeping order.
func Filter(qs []quiz.Question, cats ...quiz.Category) []quiz.Question {
	want := make(map[quiz.Category]bool, len(cats))
	for _, c := range cats {
		want[c] = true
	}
	var out []quiz.Question
	for _, q := range qs {
		if want[q.Category] {
			out = append(out, q)
		}
	}
	return out
}
