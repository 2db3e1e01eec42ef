package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2026, 3, 1, 23, 59, 0, 0, time.Local)
	fake := NewFake(start)

	fake.Advance(2 * time.Minute)

	assert.Equal(t, start.Add(2*time.Minute), fake.Now())
	assert.Equal(t, "2026-03-02", Today(fake))
}

func TestManualSchedulerFireAndCancel(t *testing.T) {
	sched := NewManualScheduler()
	var calls int

	cancel := sched.Every(time.Second, func() { calls++ })
	sched.Fire(3)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, sched.Active())

	cancel()
	cancel()
	sched.Fire(2)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, sched.Active())

	sched.Last()()
	assert.Equal(t, 4, calls, "Last returns the cancelled callback itself")
}

func TestTickerSchedulerStops(t *testing.T) {
	var calls atomic.Int32
	cancel := TickerScheduler{}.Every(5*time.Millisecond, func() { calls.Add(1) })

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)

	cancel()
	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), after+1)
}
