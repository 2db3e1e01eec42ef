// Package pomodoro implements the focus/break timer as an explicit state
// machine driven by an injected scheduler.
package pomodoro

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/balkashynov/ssp/internal/clock"
)

// TickInterval is how much remaining time one tick consumes
const TickInterval = time.Second

// State is the engine's lifecycle state
type State int

const (
	Ready State = iota
	RunningFocus
	RunningBreak
	Paused
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case RunningFocus:
		return "Focus"
	case RunningBreak:
		return "Break"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Phase is one of the two alternating intervals
type Phase int

const (
	Focus Phase = iota
	Break
)

func (p Phase) String() string {
	if p == Break {
		return "break"
	}
	return "focus"
}

// PhaseEvent is emitted whenever a phase runs out.
// TaskID is the attached task at completion time, empty if none.
type PhaseEvent struct {
	Completed Phase
	Next      Phase
	TaskID    string
}

// Status is a point-in-time view of the engine
type Status struct {
	State     State
	Phase     Phase
	Remaining time.Duration
	Total     time.Duration // length of the current phase
	TaskID    string
}

// Engine is the pomodoro state machine
type Engine struct {
	scheduler clock.Scheduler
	log       *slog.Logger

	mu        sync.Mutex
	state     State
	phase     Phase
	remaining time.Duration
	focus     time.Duration
	brk       time.Duration
	attached  string
	gen       uint64
	cancel    clock.CancelFunc
	handlers  []func(PhaseEvent)
}

// New creates an engine in the Ready state
func New(focus, brk time.Duration, scheduler clock.Scheduler, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		scheduler: scheduler,
		log:       log,
		state:     Ready,
		phase:     Focus,
		focus:     atLeastMinute(focus),
		brk:       atLeastMinute(brk),
	}
}

func atLeastMinute(d time.Duration) time.Duration {
	if d < time.Minute {
		return time.Minute
	}
	return d
}

// OnPhaseComplete registers a handler. Handlers run outside the engine lock.
func (e *Engine) OnPhaseComplete(fn func(PhaseEvent)) {
	e.mu.Lock()
	e.handlers = append(e.handlers, fn)
	e.mu.Unlock()
}

// Configure sets the phase lengths. A Ready engine is re-seeded with the new
// focus length; a running or paused one keeps its remaining time.
func (e *Engine) Configure(focus, brk time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focus = atLeastMinute(focus)
	e.brk = atLeastMinute(brk)
	if e.state == Ready && e.remaining > 0 {
		e.remaining = e.focus
	}
}

// Start begins or resumes ticking
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case RunningFocus, RunningBreak:
		return
	case Ready:
		e.phase = Focus
	}
	if e.remaining <= 0 {
		e.phase = Focus
		e.remaining = e.focus
	}
	e.state = e.runningState()
	e.arm()
	e.log.Debug("pomodoro started", "phase", e.phase, "remaining", e.remaining)
}

// Pause stops ticking and keeps the phase and remaining time
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != RunningFocus && e.state != RunningBreak {
		return
	}
	e.disarm()
	e.state = Paused
	e.log.Debug("pomodoro paused", "phase", e.phase, "remaining", e.remaining)
}

// Reset returns to Ready with a full focus interval
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disarm()
	e.state = Ready
	e.phase = Focus
	e.remaining = e.focus
	e.log.Debug("pomodoro reset")
}

// Tick consumes one second when running
func (e *Engine) Tick() {
	e.mu.Lock()
	ev, fired := e.tickLocked()
	handlers := e.handlers
	e.mu.Unlock()

	if fired {
		for _, fn := range handlers {
			fn(ev)
		}
	}
}

// tickFrom is the scheduled callback; it drops ticks armed before the last
// Start/Pause/Reset.
func (e *Engine) tickFrom(gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	ev, fired := e.tickLocked()
	handlers := e.handlers
	e.mu.Unlock()

	if fired {
		for _, fn := range handlers {
			fn(ev)
		}
	}
}

func (e *Engine) tickLocked() (PhaseEvent, bool) {
	if e.state != RunningFocus && e.state != RunningBreak {
		return PhaseEvent{}, false
	}

	e.remaining -= TickInterval
	if e.remaining > 0 {
		return PhaseEvent{}, false
	}

	ev := PhaseEvent{Completed: e.phase}
	if e.phase == Focus {
		ev.TaskID = e.attached
		e.phase = Break
		e.remaining = e.brk
	} else {
		e.phase = Focus
		e.remaining = e.focus
	}
	ev.Next = e.phase
	e.state = e.runningState()
	e.log.Info("pomodoro phase complete", "completed", ev.Completed, "next", ev.Next, "task_id", ev.TaskID)
	return ev, true
}

// Attach sets the task credited when a focus phase completes; "" clears it
func (e *Engine) Attach(taskID string) {
	e.mu.Lock()
	e.attached = taskID
	e.mu.Unlock()
}

// Detach clears the attached task
func (e *Engine) Detach() {
	e.Attach("")
}

// DetachIf clears the attachment only if it points at taskID
func (e *Engine) DetachIf(taskID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if taskID == "" || e.attached != taskID {
		return false
	}
	e.attached = ""
	return true
}

// Attached returns the attached task id, "" if none
func (e *Engine) Attached() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attached
}

// Status returns a snapshot of the engine
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := e.focus
	if e.phase == Break {
		total = e.brk
	}
	return Status{
		State:     e.state,
		Phase:     e.phase,
		Remaining: e.remaining,
		Total:     total,
		TaskID:    e.attached,
	}
}

// Display renders the remaining time as MM:SS, rounding up to the second
func (e *Engine) Display() string {
	st := e.Status()
	remaining := st.Remaining
	if remaining <= 0 {
		remaining = st.Total
	}
	return FormatRemaining(remaining)
}

// FormatRemaining renders d as MM:SS, rounding up to the whole second
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Stop cancels any scheduled tick; used on shutdown
func (e *Engine) Stop() {
	e.mu.Lock()
	e.disarm()
	e.mu.Unlock()
}

func (e *Engine) runningState() State {
	if e.phase == Break {
		return RunningBreak
	}
	return RunningFocus
}

func (e *Engine) arm() {
	e.disarm()
	gen := e.gen
	e.cancel = e.scheduler.Every(TickInterval, func() { e.tickFrom(gen) })
}

func (e *Engine) disarm() {
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
