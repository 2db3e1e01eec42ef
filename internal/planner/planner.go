// Package planner holds the study planner core: the task and session
// repositories, the pomodoro engine wiring and the derived views.
package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/balkashynov/ssp/internal/clock"
	"github.com/balkashynov/ssp/internal/db"
	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/pomodoro"
)

// Hooks are the signals renderers subscribe to. Any field may be nil.
// Hooks run after the planner lock is released.
type Hooks struct {
	TasksChanged    func(View)
	SessionsChanged func(View)
	PhaseComplete   func(pomodoro.PhaseEvent, View)
	Celebrate       func(models.Task)
}

// Options configures a Planner
type Options struct {
	Clock     clock.Clock
	Scheduler clock.Scheduler
	Logger    *slog.Logger
}

type change int

const (
	tasksChanged change = 1 << iota
	sessionsChanged
	settingsChanged
)

// Planner serializes every mutation, persists it and notifies subscribers
type Planner struct {
	store *db.Store
	clock clock.Clock
	log   *slog.Logger

	mu       sync.Mutex
	tasks    *TaskService
	sessions *SessionService
	settings models.Settings
	engine   *pomodoro.Engine
	agg      *Aggregator

	hookMu sync.Mutex
	hooks  []Hooks
}

// New loads the persisted snapshot and wires the repositories and engine
func New(store *db.Store, opts Options) *Planner {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = clock.TickerScheduler{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	snap := store.LoadSnapshot()
	p := &Planner{
		store:    store,
		clock:    opts.Clock,
		log:      opts.Logger,
		tasks:    NewTaskService(opts.Clock, snap.Tasks),
		sessions: NewSessionService(opts.Clock, snap.Sessions),
		settings: snap.Settings.Normalize(),
	}
	p.engine = pomodoro.New(p.focusDuration(), p.breakDuration(), opts.Scheduler, opts.Logger)
	p.engine.OnPhaseComplete(p.handlePhase)
	p.agg = &Aggregator{
		clock:    opts.Clock,
		tasks:    p.tasks,
		sessions: p.sessions,
		engine:   p.engine,
		settings: func() models.Settings { return p.settings },
	}

	p.log.Debug("planner loaded", "tasks", p.tasks.Len(), "sessions", p.sessions.Len())
	return p
}

// Observe registers hooks
func (p *Planner) Observe(h Hooks) {
	p.hookMu.Lock()
	p.hooks = append(p.hooks, h)
	p.hookMu.Unlock()
}

// mutate runs fn under the lock, persists the slots named by c, recomputes
// the view and notifies subscribers.
func (p *Planner) mutate(c change, fn func() error) (View, error) {
	p.mu.Lock()
	if err := fn(); err != nil {
		p.mu.Unlock()
		if errors.Is(err, errUnchanged) {
			return View{}, nil
		}
		return View{}, err
	}
	p.persist(c)
	view := p.agg.Compute()
	p.mu.Unlock()

	p.notify(c, view)
	return view, nil
}

func (p *Planner) persist(c change) {
	if c&tasksChanged != 0 {
		p.store.Save(db.TasksKey, p.tasks.tasks)
	}
	if c&sessionsChanged != 0 {
		p.store.Save(db.SessionsKey, p.sessions.sessions)
	}
	if c&settingsChanged != 0 {
		p.store.Save(db.SettingsKey, p.settings)
	}
}

func (p *Planner) subscribers() []Hooks {
	p.hookMu.Lock()
	defer p.hookMu.Unlock()
	return append([]Hooks(nil), p.hooks...)
}

func (p *Planner) notify(c change, view View) {
	for _, h := range p.subscribers() {
		if c&(tasksChanged|settingsChanged) != 0 && h.TasksChanged != nil {
			h.TasksChanged(view)
		}
		if c&sessionsChanged != 0 && h.SessionsChanged != nil {
			h.SessionsChanged(view)
		}
	}
}

func (p *Planner) celebrate(task models.Task) {
	for _, h := range p.subscribers() {
		if h.Celebrate != nil {
			h.Celebrate(task)
		}
	}
}

// View recomputes the derived view
func (p *Planner) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.agg.Compute()
}

// Now is the planner clock's current time
func (p *Planner) Now() time.Time {
	return p.clock.Now()
}

// Tasks returns every task, most recent first
func (p *Planner) Tasks() []models.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.All()
}

// Task looks up a task by id
func (p *Planner) Task(id string) (models.Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.ByID(id)
}

// TasksOn returns the tasks due on date
func (p *Planner) TasksOn(date string) []models.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.ByDate(date)
}

// AddTask creates a task
func (p *Planner) AddTask(in TaskInput) (models.Task, error) {
	var task models.Task
	_, err := p.mutate(tasksChanged, func() error {
		var err error
		task, err = p.tasks.Add(in)
		return err
	})
	if err != nil {
		return models.Task{}, err
	}
	p.log.Debug("task added", "id", task.ID, "title", task.Title)
	return task, nil
}

// UpdateTask merges patch into a task
func (p *Planner) UpdateTask(id string, patch TaskPatch) (models.Task, error) {
	var task models.Task
	_, err := p.mutate(tasksChanged, func() error {
		var err error
		task, err = p.tasks.Update(id, patch)
		return err
	})
	return task, err
}

// RemoveTask deletes a task and drops the pomodoro attachment pointing at it.
// Sessions keep their task reference as history.
func (p *Planner) RemoveTask(id string) (bool, error) {
	var removed bool
	_, err := p.mutate(tasksChanged, func() error {
		if removed = p.tasks.Remove(id); !removed {
			return errUnchanged
		}
		if p.engine.DetachIf(id) {
			p.log.Debug("pomodoro detached from deleted task", "id", id)
		}
		return nil
	})
	return removed, err
}

// ClearTasks deletes every task
func (p *Planner) ClearTasks() (int, error) {
	var n int
	_, err := p.mutate(tasksChanged, func() error {
		n = p.tasks.Clear()
		p.engine.Detach()
		return nil
	})
	return n, err
}

// ToggleDone flips a task's done flag and celebrates on completion
func (p *Planner) ToggleDone(id string) (models.Task, error) {
	var task models.Task
	var completed bool
	_, err := p.mutate(tasksChanged, func() error {
		var err error
		task, completed, err = p.tasks.ToggleDone(id)
		return err
	})
	if err != nil {
		return models.Task{}, err
	}
	if completed {
		p.celebrate(task)
	}
	return task, nil
}

// IncrementPomodoro adds a completed pomodoro to a task
func (p *Planner) IncrementPomodoro(id string) (models.Task, error) {
	return p.pomodoroCount(id, p.tasks.IncrementPomodoro)
}

// DecrementPomodoro removes a completed pomodoro, floored at zero
func (p *Planner) DecrementPomodoro(id string) (models.Task, error) {
	return p.pomodoroCount(id, p.tasks.DecrementPomodoro)
}

// ResetPomodoro zeroes a task's completed pomodoros
func (p *Planner) ResetPomodoro(id string) (models.Task, error) {
	return p.pomodoroCount(id, p.tasks.ResetPomodoro)
}

func (p *Planner) pomodoroCount(id string, fn func(string) (models.Task, error)) (models.Task, error) {
	var task models.Task
	_, err := p.mutate(tasksChanged, func() error {
		var err error
		task, err = fn(id)
		return err
	})
	return task, err
}

// Sessions returns every session, most recent first
func (p *Planner) Sessions() []models.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessions.All()
}

// ActiveSession returns the running session, if any
func (p *Planner) ActiveSession() (models.Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessions.Active()
}

// StartSession begins time tracking, optionally against a task ("" for none)
func (p *Planner) StartSession(taskID string) (models.Session, error) {
	var session models.Session
	_, err := p.mutate(sessionsChanged, func() error {
		var ref *string
		if taskID != "" {
			if _, ok := p.tasks.ByID(taskID); !ok {
				return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
			}
			ref = &taskID
		}
		var err error
		session, err = p.sessions.Start(ref)
		return err
	})
	return session, err
}

// StopSession finalizes the running session
func (p *Planner) StopSession() (models.Session, error) {
	var session models.Session
	_, err := p.mutate(sessionsChanged, func() error {
		var err error
		session, err = p.sessions.Stop()
		return err
	})
	return session, err
}

// RemoveSession deletes a session
func (p *Planner) RemoveSession(id string) (bool, error) {
	var removed bool
	_, err := p.mutate(sessionsChanged, func() error {
		if removed = p.sessions.Remove(id); !removed {
			return errUnchanged
		}
		return nil
	})
	return removed, err
}

// Settings returns the current settings
func (p *Planner) Settings() models.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// UpdateSettings normalizes, persists and applies new settings
func (p *Planner) UpdateSettings(s models.Settings) (models.Settings, error) {
	_, err := p.mutate(settingsChanged, func() error {
		p.settings = s.Normalize()
		p.engine.Configure(p.focusDuration(), p.breakDuration())
		return nil
	})
	return p.Settings(), err
}

// Engine exposes the pomodoro engine for status reads
func (p *Planner) Engine() *pomodoro.Engine {
	return p.engine
}

// StartPomodoro starts or resumes the timer
func (p *Planner) StartPomodoro() { p.engine.Start() }

// PausePomodoro pauses the timer
func (p *Planner) PausePomodoro() { p.engine.Pause() }

// ResetTimer returns the timer to Ready
func (p *Planner) ResetTimer() { p.engine.Reset() }

// AttachPomodoro sets the task credited on focus completion; "" detaches
func (p *Planner) AttachPomodoro(taskID string) error {
	_, err := p.mutate(tasksChanged, func() error {
		if taskID != "" {
			if _, ok := p.tasks.ByID(taskID); !ok {
				return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
			}
		}
		p.engine.Attach(taskID)
		return nil
	})
	return err
}

// AttachedTask resolves the engine's attachment against the task collection.
// A dangling id reads as no task.
func (p *Planner) AttachedTask() (models.Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.engine.Attached()
	if id == "" {
		return models.Task{}, false
	}
	return p.tasks.ByID(id)
}

// handlePhase credits the attached task on focus completion and forwards the
// event. Runs on the scheduler's goroutine.
func (p *Planner) handlePhase(ev pomodoro.PhaseEvent) {
	p.mu.Lock()
	credited := false
	if ev.Completed == pomodoro.Focus && ev.TaskID != "" {
		if _, err := p.tasks.IncrementPomodoro(ev.TaskID); err == nil {
			credited = true
			p.persist(tasksChanged)
		} else {
			p.log.Debug("attached task gone, nothing credited", "id", ev.TaskID)
		}
	}
	view := p.agg.Compute()
	p.mu.Unlock()

	if credited {
		p.notify(tasksChanged, view)
	}
	for _, h := range p.subscribers() {
		if h.PhaseComplete != nil {
			h.PhaseComplete(ev, view)
		}
	}
}

// PersistenceError returns the last save failure, nil if the last save worked
func (p *Planner) PersistenceError() error {
	return p.store.LastError()
}

// Close stops the pomodoro ticker
func (p *Planner) Close() {
	p.engine.Stop()
}

func (p *Planner) focusDuration() time.Duration {
	return time.Duration(p.settings.FocusMinutes) * time.Minute
}

func (p *Planner) breakDuration() time.Duration {
	return time.Duration(p.settings.BreakMinutes) * time.Minute
}
