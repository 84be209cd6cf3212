// Package llm talks to hosted language models. Every provider returns
// JSON that has already been checked against the request's schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends a single-turn prompt to a model.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name is the provider family, e.g. "anthropic".
	Name() string

	// Model is the model identifier requests are sent to.
	Model() string
}

// Request is one prompt.
type Request struct {
	System string
	Prompt string

	// Schema, when set, asks for structured output and is used to
	// validate the reply.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Response is the model's reply.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Decode unmarshals the response content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return invalid(r.Content, err)
	}
	return nil
}

type purposeKey struct{}

// WithPurpose labels requests made with ctx for the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "unknown"
}

// resolveModel maps a short alias to a model ID. Unknown names pass
// through unchanged.
func resolveModel(name, fallback string, aliases map[string]string) string {
	if name == "" {
		name = fallback
	}
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
