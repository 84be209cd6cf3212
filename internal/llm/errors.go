package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Error kinds. Match with errors.Is.
var (
	ErrRateLimited   = errors.New("rate limited")
	ErrUnavailable   = errors.New("provider unavailable")
	ErrInvalidOutput = errors.New("invalid model output")
	ErrTruncated     = errors.New("response truncated at max tokens")
	ErrRejected      = errors.New("request rejected")
)

// Error carries the kind of failure plus provider detail.
type Error struct {
	Kind       error
	RetryAfter time.Duration   // rate limits only
	Content    json.RawMessage // offending output, if any
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func rateLimited(err error) error { return &Error{Kind: ErrRateLimited, Err: err} }

func unavailable(err error) error { return &Error{Kind: ErrUnavailable, Err: err} }

func invalid(content json.RawMessage, err error) error {
	return &Error{Kind: ErrInvalidOutput, Content: content, Err: err}
}

// statusError classifies an HTTP status from a provider SDK error.
func statusError(status int, err error) error {
	switch {
	case status == 429:
		return rateLimited(err)
	case status >= 400 && status < 500:
		return &Error{Kind: ErrRejected, Err: err}
	default:
		return unavailable(err)
	}
}
