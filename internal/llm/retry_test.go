package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMock(MockResponse{Content: json.RawMessage(`{"ok":true}`)})
	p := WithRetry(mock, retryConfig())

	resp, err := p.Complete(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if n := len(mock.Calls()); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMock(
		MockResponse{Err: unavailable(errors.New("down"))},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := WithRetry(mock, retryConfig())

	if _, err := p.Complete(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(mock.Calls()); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	mock := NewMock(
		MockResponse{Err: unavailable(errors.New("down"))},
		MockResponse{Err: unavailable(errors.New("down"))},
		MockResponse{Err: unavailable(errors.New("down"))},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Complete(context.Background(), Request{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if n := len(mock.Calls()); n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
}

func TestRetry_TruncatedNotRetried(t *testing.T) {
	mock := NewMock(
		MockResponse{Err: &Error{Kind: ErrTruncated}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Complete(context.Background(), Request{})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if n := len(mock.Calls()); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestRetry_RejectedNotRetried(t *testing.T) {
	mock := NewMock(
		MockResponse{Err: statusError(401, errors.New("bad key"))},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Complete(context.Background(), Request{})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if n := len(mock.Calls()); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestRetry_InvalidOutputRetriedOnce(t *testing.T) {
	mock := NewMock(
		MockResponse{Err: invalid(nil, errors.New("bad"))},
		MockResponse{Err: invalid(nil, errors.New("bad"))},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Complete(context.Background(), Request{})
	if !errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("expected ErrInvalidOutput, got %v", err)
	}
	if n := len(mock.Calls()); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestRetry_ContextCanceledStops(t *testing.T) {
	mock := NewMock(
		MockResponse{Err: unavailable(errors.New("down"))},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	cfg := retryConfig()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour
	p := WithRetry(mock, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Complete(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n := len(mock.Calls()); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestRetry_BackoffRespectsRetryAfter(t *testing.T) {
	r := &retrying{cfg: retryConfig()}
	err := &Error{Kind: ErrRateLimited, RetryAfter: 3 * time.Second}
	if got := r.backoff(0, err); got != 3*time.Second {
		t.Fatalf("expected 3s, got %v", got)
	}
}

func TestRetry_BackoffCappedWithJitter(t *testing.T) {
	r := &retrying{cfg: RetryConfig{
		MaxAttempts: 5,
		InitialWait: time.Second,
		MaxWait:     4 * time.Second,
		Multiplier:  2,
	}}
	for attempt := range 6 {
		got := r.backoff(attempt, errors.New("x"))
		if got > 4800*time.Millisecond {
			t.Fatalf("attempt %d: backoff %v above cap plus jitter", attempt, got)
		}
	}
}
