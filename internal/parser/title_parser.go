package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/ssp/internal/models"
)

var (
	subjectRegex  = regexp.MustCompile(`@([\p{L}0-9_.-]+)`)
	priorityRegex = regexp.MustCompile(`(?:^|\s)\+([a-zA-Z0-9]+)`)
	dueRegex      = regexp.MustCompile(`due:(\S+)`)
)

// ParsedTask represents a task parsed from quick-add text
type ParsedTask struct {
	Title    string
	Subject  string
	Priority models.Priority
	Deadline string
	Errors   []string
}

// ParseQuickAdd extracts metadata from a task line using natural syntax
// Syntax: "Read chapter 4 @math +high due:tomorrow"
func ParseQuickAdd(input string, now time.Time) ParsedTask {
	result := ParsedTask{Errors: []string{}}

	// Subject (@subject); underscores read as spaces so "@world_history" works
	if m := subjectRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Subject = strings.ReplaceAll(m[1], "_", " ")
		input = subjectRegex.ReplaceAllString(input, "")
	}

	// Priority (+high, +3, +med)
	if m := priorityRegex.FindStringSubmatch(input); len(m) > 1 {
		p, err := models.ParsePriority(m[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid priority '"+m[1]+"'. Use: low, medium, high, 1, 2, or 3")
		} else {
			result.Priority = p
		}
		input = priorityRegex.ReplaceAllString(input, " ")
	}

	// Deadline (due:tomorrow, due:15/12/2026, due:3days)
	if m := dueRegex.FindStringSubmatch(input); len(m) > 1 {
		deadline, err := ParseDeadline(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+m[1]+"': "+err.Error())
		} else {
			result.Deadline = deadline
		}
		input = dueRegex.ReplaceAllString(input, "")
	}

	result.Title = strings.Join(strings.Fields(input), " ")
	return result
}

// HasErrors reports whether any token failed to parse
func (p ParsedTask) HasErrors() bool {
	return len(p.Errors) > 0
}
