package sched

import "time"

// Clock supplies monotonic time since boot and blocks the executor while no
// task is ready.
type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}

// SystemClock is the board's monotonic clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock starts counting from now.
func NewSystemClock() *SystemClock { return &SystemClock{start: time.Now()} }

func (c *SystemClock) Now() time.Duration { return time.Since(c.start) }

func (c *SystemClock) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// SimClock is virtual time: Sleep returns immediately after moving the clock
// forward. Used by tests and the host simulator.
type SimClock struct {
	now time.Duration
}

func (c *SimClock) Now() time.Duration { return c.now }

func (c *SimClock) Sleep(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// Advance moves virtual time forward by d, e.g. to model a slow task body.
func (c *SimClock) Advance(d time.Duration) { c.Sleep(d) }
