package planner

import (
	"github.com/balkashynov/ssp/internal/clock"
	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/pomodoro"
)

// MiniStats is the dashboard summary line
type MiniStats struct {
	TotalTasks     int `json:"totalTasks"`
	TotalPomodoros int `json:"totalPomodoros"`
}

// TaskPomodoros pairs a task with its completed pomodoros
type TaskPomodoros struct {
	Task      models.Task `json:"task"`
	Pomodoros int         `json:"pomodoros"`
}

// View is everything renderers need, recomputed from scratch on every change
type View struct {
	Today      string
	Tasks      []models.Task
	TodayTasks []models.Task
	Sessions   []models.Session
	Active     *models.Session
	Stats      MiniStats
	Weekly     []DayMinutes
	Pomodoros  []TaskPomodoros
	Pomodoro   pomodoro.Status
	Settings   models.Settings
}

// Aggregator derives read-only views from the repositories.
//
// Every mutation triggers a full Compute; nothing is cached or diffed. Cost
// is O(tasks + sessions) per change, fine for a personal planner and the
// first thing to revisit if collections grow to many thousands of entries.
type Aggregator struct {
	clock    clock.Clock
	tasks    *TaskService
	sessions *SessionService
	engine   *pomodoro.Engine
	settings func() models.Settings
}

// TodayTasks returns tasks whose deadline is today
func (a *Aggregator) TodayTasks() []models.Task {
	return a.tasks.ByDate(clock.Today(a.clock))
}

// MiniStats counts tasks and completed pomodoros
func (a *Aggregator) MiniStats() MiniStats {
	stats := MiniStats{}
	for _, t := range a.tasks.tasks {
		stats.TotalTasks++
		stats.TotalPomodoros += t.PomodorosCompleted
	}
	return stats
}

// WeeklyMinutes returns tracked minutes for the last 7 days, oldest first
func (a *Aggregator) WeeklyMinutes() []DayMinutes {
	return a.sessions.WeeklyMinutes(a.clock.Now())
}

// PomodoroSummary mirrors the task order
func (a *Aggregator) PomodoroSummary() []TaskPomodoros {
	out := make([]TaskPomodoros, 0, a.tasks.Len())
	for _, t := range a.tasks.tasks {
		out = append(out, TaskPomodoros{Task: t, Pomodoros: t.PomodorosCompleted})
	}
	return out
}

// Compute builds the full view
func (a *Aggregator) Compute() View {
	v := View{
		Today:      clock.Today(a.clock),
		Tasks:      a.tasks.All(),
		TodayTasks: a.TodayTasks(),
		Sessions:   a.sessions.All(),
		Stats:      a.MiniStats(),
		Weekly:     a.WeeklyMinutes(),
		Pomodoros:  a.PomodoroSummary(),
		Settings:   a.settings(),
	}
	if active, ok := a.sessions.Active(); ok {
		v.Active = &active
	}
	if a.engine != nil {
		v.Pomodoro = a.engine.Status()
	}
	return v
}
