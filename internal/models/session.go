package models

import (
	"math"
	"time"
)

// Session represents a time tracking session
type Session struct {
	ID       string     `json:"id"`
	TaskID   *string    `json:"taskId"` // weak reference, may outlive the task
	Start    time.Time  `json:"start"`
	Stop     *time.Time `json:"stop"` // nil while the session is active
	Duration int        `json:"duration"` // whole minutes
}

// Active reports whether the session is still running
func (s Session) Active() bool {
	return s.Stop == nil
}

// HasTask reports whether the session references a task
func (s Session) HasTask() bool {
	return s.TaskID != nil && *s.TaskID != ""
}

// DurationMinutes rounds an elapsed interval to whole minutes, never negative
func DurationMinutes(start, stop time.Time) int {
	seconds := stop.Sub(start).Seconds()
	if seconds <= 0 {
		return 0
	}
	return int(math.Round(seconds / 60))
}
