package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/ssp/internal/clock"
	"github.com/balkashynov/ssp/internal/models"
)

// TaskInput holds the data needed to create a new task
type TaskInput struct {
	Subject  string
	Title    string
	Deadline string // YYYY-MM-DD or empty
	Priority models.Priority
	Notes    string
}

// TaskPatch holds the fields to change on an existing task; nil means keep
type TaskPatch struct {
	Subject  *string
	Title    *string
	Deadline *string
	Priority *models.Priority
	Notes    *string
}

// TaskService owns the task collection, most recent first
type TaskService struct {
	clock clock.Clock
	tasks []models.Task
}

// NewTaskService wraps an existing collection
func NewTaskService(c clock.Clock, tasks []models.Task) *TaskService {
	s := &TaskService{clock: c}
	s.Replace(tasks)
	return s
}

// Add validates and inserts a new task at the front
func (s *TaskService) Add(in TaskInput) (models.Task, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Title = strings.TrimSpace(in.Title)
	if in.Subject == "" || in.Title == "" {
		return models.Task{}, fmt.Errorf("%w: subject and title are required", ErrValidation)
	}
	deadline, err := normalizeDeadline(in.Deadline)
	if err != nil {
		return models.Task{}, err
	}
	priority, err := normalizePriority(in.Priority)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:                 uuid.NewString(),
		Subject:            in.Subject,
		Title:              in.Title,
		Deadline:           deadline,
		Priority:           priority,
		Notes:              in.Notes,
		CreatedAt:          s.clock.Now(),
		Done:               false,
		PomodorosCompleted: 0,
	}
	s.tasks = append([]models.Task{task}, s.tasks...)
	return task, nil
}

// Update merges patch into the task with the given id
func (s *TaskService) Update(id string, patch TaskPatch) (models.Task, error) {
	i := s.index(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	task := s.tasks[i]
	if patch.Subject != nil {
		task.Subject = strings.TrimSpace(*patch.Subject)
	}
	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if (patch.Subject != nil && task.Subject == "") || (patch.Title != nil && task.Title == "") {
		return models.Task{}, fmt.Errorf("%w: subject and title are required", ErrValidation)
	}
	if patch.Deadline != nil {
		deadline, err := normalizeDeadline(*patch.Deadline)
		if err != nil {
			return models.Task{}, err
		}
		task.Deadline = deadline
	}
	if patch.Priority != nil {
		priority, err := normalizePriority(*patch.Priority)
		if err != nil {
			return models.Task{}, err
		}
		task.Priority = priority
	}
	if patch.Notes != nil {
		task.Notes = *patch.Notes
	}

	s.tasks[i] = task
	return task, nil
}

// Remove deletes the task; reports whether it existed
func (s *TaskService) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

// Clear removes every task
func (s *TaskService) Clear() int {
	n := len(s.tasks)
	s.tasks = []models.Task{}
	return n
}

// ToggleDone flips done; the bool is true on a not-done to done transition
func (s *TaskService) ToggleDone(id string) (models.Task, bool, error) {
	i := s.index(id)
	if i < 0 {
		return models.Task{}, false, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	wasDone := s.tasks[i].Done
	s.tasks[i].Done = !wasDone
	return s.tasks[i], !wasDone, nil
}

// IncrementPomodoro adds one completed pomodoro
func (s *TaskService) IncrementPomodoro(id string) (models.Task, error) {
	return s.setPomodoros(id, func(n int) int { return n + 1 })
}

// DecrementPomodoro removes one completed pomodoro, never below zero
func (s *TaskService) DecrementPomodoro(id string) (models.Task, error) {
	return s.setPomodoros(id, func(n int) int { return n - 1 })
}

// ResetPomodoro sets the completed pomodoros to zero
func (s *TaskService) ResetPomodoro(id string) (models.Task, error) {
	return s.setPomodoros(id, func(int) int { return 0 })
}

func (s *TaskService) setPomodoros(id string, fn func(int) int) (models.Task, error) {
	i := s.index(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	s.tasks[i].PomodorosCompleted = max(0, fn(s.tasks[i].PomodorosCompleted))
	return s.tasks[i], nil
}

// ByID returns the task with the given id
func (s *TaskService) ByID(id string) (models.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// ByDate returns the tasks due on date, in collection order
func (s *TaskService) ByDate(date string) []models.Task {
	out := []models.Task{}
	for _, t := range s.tasks {
		if t.DueOn(date) {
			out = append(out, t)
		}
	}
	return out
}

// All returns a copy of the collection
func (s *TaskService) All() []models.Task {
	return append([]models.Task{}, s.tasks...)
}

// Len returns the number of tasks
func (s *TaskService) Len() int {
	return len(s.tasks)
}

// Replace swaps in a new collection, repairing ids and counters
func (s *TaskService) Replace(tasks []models.Task) {
	seen := make(map[string]bool, len(tasks))
	s.tasks = make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" || seen[t.ID] {
			t.ID = uuid.NewString()
		}
		seen[t.ID] = true
		if t.PomodorosCompleted < 0 {
			t.PomodorosCompleted = 0
		}
		if t.Priority == "" {
			t.Priority = models.PriorityMedium
		}
		s.tasks = append(s.tasks, t)
	}
}

func (s *TaskService) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func normalizeDeadline(deadline string) (string, error) {
	deadline = strings.TrimSpace(deadline)
	if deadline == "" {
		return "", nil
	}
	if _, err := time.Parse(models.DateLayout, deadline); err != nil {
		return "", fmt.Errorf("%w: deadline %q is not a YYYY-MM-DD date", ErrValidation, deadline)
	}
	return deadline, nil
}

func normalizePriority(p models.Priority) (models.Priority, error) {
	parsed, err := models.ParsePriority(string(p))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return parsed, nil
}
