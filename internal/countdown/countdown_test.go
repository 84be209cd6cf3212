package countdown

import (
	"testing"
	"time"
)

func TestTimerCountsToZero(t *testing.T) {
	tm := New(3 * time.Second)
	if !tm.Running() {
		t.Fatal("expected timer to be running")
	}
	if tm.Tick() || tm.Tick() {
		t.Fatal("expired too early")
	}
	if !tm.Tick() {
		t.Fatal("expected expiry on third tick")
	}
	if tm.Running() {
		t.Error("expected timer stopped after expiry")
	}
	if tm.Tick() {
		t.Error("expired twice")
	}
	if tm.Remaining() != 0 {
		t.Errorf("remaining = %v, want 0", tm.Remaining())
	}
}

func TestTimerStop(t *testing.T) {
	tm := New(time.Minute)
	tm.Tick()
	tm.Stop()
	tm.Tick()
	if got := tm.Remaining(); got != 59*time.Second {
		t.Errorf("remaining = %v, want 59s", got)
	}
}

func TestZeroLimitNeverRuns(t *testing.T) {
	tm := New(0)
	if tm.Running() {
		t.Error("zero limit timer should not run")
	}
	if tm.Tick() {
		t.Error("zero limit timer should not expire")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{10 * time.Minute, "10:00"},
		{20*time.Minute - time.Second, "19:59"},
		{1500 * time.Millisecond, "00:01"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := Format(tt.d); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
