// Package countdown implements the one-second quiz timer.
package countdown

import (
	"fmt"
	"time"
)

// Timer counts down whole seconds. It does not schedule anything itself;
// the owner calls Tick once per second while it is running.
type Timer struct {
	remaining int
	running   bool
}

// New creates a running timer for limit. A zero limit gives a timer that
// never runs.
func New(limit time.Duration) *Timer {
	secs := int(limit / time.Second)
	return &Timer{remaining: secs, running: secs > 0}
}

// Tick removes one second and reports whether the timer just reached
// zero. A stopped timer ignores ticks.
func (t *Timer) Tick() bool {
	if !t.running {
		return false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.running = false
		return true
	}
	return false
}

// Stop halts the timer. Further ticks are ignored.
func (t *Timer) Stop() { t.running = false }

// Running reports whether the timer is still counting.
func (t *Timer) Running() bool { return t.running }

// Remaining returns the time left.
func (t *Timer) Remaining() time.Duration {
	return time.Duration(t.remaining) * time.Second
}

// Format renders the remaining time as mm:ss.
func (t *Timer) Format() string {
	return Format(t.Remaining())
}

// Format renders d as mm:ss, rounding down to the second.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
