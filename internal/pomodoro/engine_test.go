package pomodoro

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/ssp/internal/clock"
)

func newTestEngine(focusMin, breakMin int) (*Engine, *clock.ManualScheduler) {
	sched := clock.NewManualScheduler()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	e := New(time.Duration(focusMin)*time.Minute, time.Duration(breakMin)*time.Minute, sched, log)
	return e, sched
}

func TestEngine_InitialState(t *testing.T) {
	e, sched := newTestEngine(25, 5)

	st := e.Status()
	assert.Equal(t, Ready, st.State)
	assert.Equal(t, Focus, st.Phase)
	assert.Equal(t, "25:00", e.Display())
	assert.Equal(t, 0, sched.Active())
}

func TestEngine_FocusCompletesIntoBreak(t *testing.T) {
	e, sched := newTestEngine(1, 5)
	var events []PhaseEvent
	e.OnPhaseComplete(func(ev PhaseEvent) { events = append(events, ev) })
	e.Attach("task-1")

	e.Reset()
	e.Start()
	require.Equal(t, RunningFocus, e.Status().State)

	sched.Fire(59)
	assert.Equal(t, RunningFocus, e.Status().State)
	assert.Equal(t, time.Second, e.Status().Remaining)
	assert.Empty(t, events)

	sched.Fire(1)
	st := e.Status()
	assert.Equal(t, RunningBreak, st.State)
	assert.Equal(t, Break, st.Phase)
	assert.Equal(t, 5*60*time.Second, st.Remaining)
	require.Len(t, events, 1)
	assert.Equal(t, PhaseEvent{Completed: Focus, Next: Break, TaskID: "task-1"}, events[0])
}

func TestEngine_BreakCompletesIntoFocus(t *testing.T) {
	e, sched := newTestEngine(1, 1)
	var events []PhaseEvent
	e.OnPhaseComplete(func(ev PhaseEvent) { events = append(events, ev) })
	e.Attach("task-1")

	e.Start()
	sched.Fire(120)

	require.Len(t, events, 2)
	assert.Equal(t, PhaseEvent{Completed: Break, Next: Focus}, events[1], "break completion credits no task")
	st := e.Status()
	assert.Equal(t, RunningFocus, st.State)
	assert.Equal(t, time.Minute, st.Remaining)
}

func TestEngine_PauseResumesSamePhase(t *testing.T) {
	e, sched := newTestEngine(1, 2)
	e.Start()
	sched.Fire(61) // one second into the break

	e.Pause()
	st := e.Status()
	assert.Equal(t, Paused, st.State)
	assert.Equal(t, Break, st.Phase)
	assert.Equal(t, 119*time.Second, st.Remaining)
	assert.Equal(t, 0, sched.Active())

	sched.Fire(10)
	assert.Equal(t, 119*time.Second, e.Status().Remaining)

	e.Start()
	assert.Equal(t, RunningBreak, e.Status().State)
	sched.Fire(1)
	assert.Equal(t, 118*time.Second, e.Status().Remaining)
}

func TestEngine_StaleTickAfterPauseIsDropped(t *testing.T) {
	e, sched := newTestEngine(1, 1)
	e.Start()
	stale := sched.Last()

	e.Pause()
	stale()
	assert.Equal(t, time.Minute, e.Status().Remaining)

	e.Start()
	stale()
	assert.Equal(t, time.Minute, e.Status().Remaining, "tick from a previous run must not count")

	e.Reset()
	stale()
	assert.Equal(t, Ready, e.Status().State)
}

func TestEngine_ResetForcesFocus(t *testing.T) {
	e, sched := newTestEngine(1, 3)
	e.Start()
	sched.Fire(70)

	e.Reset()
	st := e.Status()
	assert.Equal(t, Ready, st.State)
	assert.Equal(t, Focus, st.Phase)
	assert.Equal(t, time.Minute, st.Remaining)
	assert.Equal(t, 0, sched.Active())
}

func TestEngine_StartTwiceArmsOnce(t *testing.T) {
	e, sched := newTestEngine(1, 1)
	e.Start()
	e.Start()
	assert.Equal(t, 1, sched.Active())

	sched.Fire(1)
	assert.Equal(t, 59*time.Second, e.Status().Remaining)
}

func TestEngine_AttachWhileRunning(t *testing.T) {
	e, sched := newTestEngine(1, 1)
	var credited []string
	e.OnPhaseComplete(func(ev PhaseEvent) {
		if ev.Completed == Focus {
			credited = append(credited, ev.TaskID)
		}
	})

	e.Start()
	sched.Fire(30)
	e.Attach("b")
	sched.Fire(30)

	assert.Equal(t, []string{"b"}, credited)
	assert.False(t, e.DetachIf("a"))
	assert.True(t, e.DetachIf("b"))
	assert.Equal(t, "", e.Attached())
}

func TestEngine_ConfigureReseedsReady(t *testing.T) {
	e, _ := newTestEngine(25, 5)
	e.Reset()
	e.Configure(50*time.Minute, 0)

	st := e.Status()
	assert.Equal(t, 50*time.Minute, st.Remaining)
	assert.Equal(t, "50:00", e.Display())

	e.Start()
	e.Pause()
	e.Configure(10*time.Minute, 10*time.Minute)
	assert.Equal(t, 50*time.Minute, e.Status().Remaining)
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "00:00", FormatRemaining(0))
	assert.Equal(t, "00:01", FormatRemaining(1))
	assert.Equal(t, "00:01", FormatRemaining(time.Second))
	assert.Equal(t, "00:02", FormatRemaining(1001*time.Millisecond))
	assert.Equal(t, "25:00", FormatRemaining(25*time.Minute))
	assert.Equal(t, "00:00", FormatRemaining(-time.Second))
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "Ready", Ready.String())
	assert.Equal(t, "Focus", RunningFocus.String())
	assert.Equal(t, "Break", RunningBreak.String())
	assert.Equal(t, "Paused", Paused.String())
	assert.Equal(t, "break", Break.String())
}
