package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for deadlines and day buckets
const DateLayout = "2006-01-02"

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority converts user input to a Priority.
// Accepts low/medium/med/high or 1/2/3; empty input means medium.
func ParsePriority(input string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return PriorityMedium, nil
	case "low", "1":
		return PriorityLow, nil
	case "medium", "med", "2":
		return PriorityMedium, nil
	case "high", "3":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("invalid priority '%s'. Use: low, medium, high, 1, 2, or 3", input)
	}
}

// Rank orders priorities, higher is more urgent
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Task represents a study item
type Task struct {
	ID                 string    `json:"id"`
	Subject            string    `json:"subject"`
	Title              string    `json:"title"`
	Deadline           string    `json:"deadline"` // YYYY-MM-DD or empty
	Priority           Priority  `json:"priority"`
	Notes              string    `json:"notes"`
	CreatedAt          time.Time `json:"createdAt"`
	Done               bool      `json:"done"`
	PomodorosCompleted int       `json:"pomodorosCompleted"`
}

// Label is the "title — subject" form used in lists and selects
func (t Task) Label() string {
	return t.Title + " — " + t.Subject
}

// DueOn reports whether the task's deadline falls on the given date
func (t Task) DueOn(date string) bool {
	return t.Deadline != "" && t.Deadline == date
}
