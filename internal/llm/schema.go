package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is used as the schema name by providers that need one.
	Name        string
	Description string
	Definition  map[string]any
}

var compiled sync.Map // name -> *jsonschema.Schema

// Validate checks raw against the schema.
func (s *Schema) Validate(raw json.RawMessage) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid(raw, fmt.Errorf("parse JSON: %w", err))
	}
	sch, err := s.compile()
	if err != nil {
		return invalid(raw, err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalid(raw, err)
	}
	return nil
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(s.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	def, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", s.Name, err)
	}

	url := "schema://" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
	compiled.Store(s.Name, sch)
	return sch, nil
}

// finish validates content and builds the Response every provider returns.
func finish(req Request, content json.RawMessage, model string, usage Usage, truncated bool) (*Response, error) {
	if truncated {
		return nil, &Error{Kind: ErrTruncated, Content: content}
	}
	if req.Schema != nil {
		if err := req.Schema.Validate(content); err != nil {
			return nil, err
		}
	}
	return &Response{Content: content, Usage: usage, Model: model}, nil
}
