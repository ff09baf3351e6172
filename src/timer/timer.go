package timer

import (
	"sync"
	"time"
)

// Clock is the time source for the engine and the registry. Tests drive a
// Manual clock so dwell times and bid deadlines are deterministic.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Wall returns the system clock.
func Wall() Clock { return wallClock{} }

// Manual is a clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Deadline is a restartable one-shot timer evaluated by polling. A stale
// deadline is simply never checked again.
type Deadline struct {
	Start  time.Time
	Window time.Duration
}

// Restart arms the deadline to expire window after now.
func (d *Deadline) Restart(now time.Time, window time.Duration) {
	d.Start = now
	d.Window = window
}

func (d Deadline) Expired(now time.Time) bool {
	return now.Sub(d.Start) > d.Window
}

func (d Deadline) Elapsed(now time.Time) time.Duration {
	return now.Sub(d.Start)
}
