// Package clock abstracts wall time and periodic callbacks so the planner
// and the pomodoro engine can be driven deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// System is the real wall clock in local time
type System struct{}

// Now returns time.Now()
func (System) Now() time.Time { return time.Now() }

// Fake is a settable clock for tests
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a fake clock pinned at t
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

// Now returns the pinned time
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set pins the clock at t
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Today returns the local calendar date of c.Now() as YYYY-MM-DD
func Today(c Clock) string {
	return c.Now().Format("2006-01-02")
}
