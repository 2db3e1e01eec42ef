package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/planner"
	"github.com/balkashynov/ssp/internal/tui"
)

// shortIDLen is how much of a uuid listings show
const shortIDLen = 8

// shortID trims an id for display; any unique prefix resolves back
func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// resolveTask finds a task by full id or unique id prefix
func resolveTask(p *planner.Planner, ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Task{}, fmt.Errorf("task id is required")
	}
	if task, ok := p.Task(ref); ok {
		return task, nil
	}

	var matches []models.Task
	for _, task := range p.Tasks() {
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("task %s: %w", ref, planner.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("task id '%s' is ambiguous (%d matches), use more characters", ref, len(matches))
	}
}

// resolveSession finds a session by full id or unique id prefix
func resolveSession(p *planner.Planner, ref string) (models.Session, error) {
	ref = strings.TrimSpace(ref)
	var matches []models.Session
	for _, s := range p.Sessions() {
		if s.ID == ref {
			return s, nil
		}
		if ref != "" && strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return models.Session{}, fmt.Errorf("session %s: %w", ref, planner.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Session{}, fmt.Errorf("session id '%s' is ambiguous (%d matches), use more characters", ref, len(matches))
	}
}

// sessionTaskTitle resolves a session's weak task reference
func sessionTaskTitle(p *planner.Planner, s models.Session) string {
	if !s.HasTask() {
		return "-"
	}
	if task, ok := p.Task(*s.TaskID); ok {
		return task.Title
	}
	return "(task)"
}

// truncate shortens s to width runes, with an ellipsis
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// priorityLabel returns the short priority name used in tables
func priorityLabel(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "high"
	case models.PriorityLow:
		return "low"
	default:
		return "med"
	}
}

// priorityStyle colors a priority like the task list does
func priorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorError))
	case models.PriorityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorSuccess))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorWarning))
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}

// formatMinutes renders tracked minutes as "1h 25m" or "25m"
func formatMinutes(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}
