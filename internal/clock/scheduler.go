package clock

import (
	"sync"
	"time"
)

// CancelFunc stops a periodic callback. Calling it more than once is safe.
type CancelFunc func()

// Scheduler runs fn every interval until cancelled
type Scheduler interface {
	Every(interval time.Duration, fn func()) CancelFunc
}

// TickerScheduler runs callbacks from a time.Ticker goroutine
type TickerScheduler struct{}

// Every starts a ticker goroutine. Callbacks never run after cancel returns
// unless one was already in flight.
func (TickerScheduler) Every(interval time.Duration, fn func()) CancelFunc {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// ManualScheduler records callbacks and runs them only when Fire is called
type ManualScheduler struct {
	mu      sync.Mutex
	nextID  int
	entries map[int]func()
	last    func()
}

// NewManualScheduler returns an empty manual scheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{entries: make(map[int]func())}
}

// Every registers fn; the interval is ignored
func (m *ManualScheduler) Every(_ time.Duration, fn func()) CancelFunc {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.entries[id] = fn
	m.last = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
	}
}

// Fire runs every registered callback n times, in registration order
func (m *ManualScheduler) Fire(n int) {
	for i := 0; i < n; i++ {
		for _, fn := range m.snapshot() {
			fn()
		}
	}
}

// Active returns the number of registered callbacks
func (m *ManualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Last returns the most recently registered callback even if it has been
// cancelled, to simulate a tick that raced its cancellation.
func (m *ManualScheduler) Last() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *ManualScheduler) snapshot() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fns := make([]func(), 0, len(m.entries))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.entries[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
