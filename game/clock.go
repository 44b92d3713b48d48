package game

import (
	"fmt"
	"time"
)

// Clock is the wall-clock source of the game timer.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads time.Now.
func SystemClock() Clock { return systemClock{} }

// Timer measures how long a game has been played. It starts on the first
// opened cell and freezes when the game ends.
type Timer struct {
	clock   Clock
	started time.Time
	elapsed time.Duration
	running bool
}

func NewTimer(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock()
	}
	return &Timer{clock: clock}
}

// Start resumes the timer. Starting a running timer does nothing.
func (t *Timer) Start() {
	if t.running {
		return
	}
	t.started = t.clock.Now().Add(-t.elapsed)
	t.running = true
}

// Stop freezes the elapsed time.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.elapsed = t.clock.Now().Sub(t.started)
	t.running = false
}

// Reset stops the timer and clears it.
func (t *Timer) Reset() {
	t.running = false
	t.elapsed = 0
	t.started = time.Time{}
}

func (t *Timer) Running() bool { return t.running }

func (t *Timer) Elapsed() time.Duration {
	if t.running {
		return t.clock.Now().Sub(t.started)
	}
	return t.elapsed
}

// Seconds is the elapsed time in whole seconds, rounded down.
func (t *Timer) Seconds() int {
	return int(t.Elapsed() / time.Second)
}

// FormatTime renders seconds as m:ss.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
