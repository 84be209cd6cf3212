package quiz

import (
	"math/rand/v2"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Shuffler permutes a slice of n elements in place via swap.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewShuffler returns a Shuffler backed by math/rand/v2. A nil source
// uses the global generator.
func NewShuffler(src rand.Source) Shuffler {
	if src == nil {
		return globalShuffler{}
	}
	return rand.New(src)
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }
