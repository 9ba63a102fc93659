package clock

import (
	"sync"
	"time"
)

// System is the wall-clock adapter used by the server binary.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Manual is a hand-advanced clock for deterministic engine tests.
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

// Advance moves the clock forward and returns the new time.
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}
