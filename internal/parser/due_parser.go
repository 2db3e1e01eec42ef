package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/ssp/internal/models"
)

var (
	slashDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex  = regexp.MustCompile(`^(\d+)\s*(day|days|d|week|weeks|w)$`)
)

// ParseDeadline turns a user supplied deadline into YYYY-MM-DD.
// Supported formats:
// - YYYY-MM-DD (e.g., "2026-12-15")
// - dd/mm/yyyy (e.g., "15/12/2026")
// - today, tomorrow
// - X days, X weeks (e.g., "3 days", "2weeks")
func ParseDeadline(input string, now time.Time) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch input {
	case "today":
		return today.Format(models.DateLayout), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(models.DateLayout), nil
	}

	if t, err := time.Parse(models.DateLayout, input); err == nil {
		return t.Format(models.DateLayout), nil
	}
	if day, err := parseSlashDate(input); err == nil {
		return day, nil
	} else if slashDateRegex.MatchString(input) {
		return "", err
	}
	if day, err := parseRelative(input, today); err == nil {
		return day, nil
	} else if relativeRegex.MatchString(input) {
		return "", err
	}

	return "", fmt.Errorf("invalid date format. Use: YYYY-MM-DD, dd/mm/yyyy, today, tomorrow, X days or X weeks")
}

// parseSlashDate parses dd/mm/yyyy
func parseSlashDate(input string) (string, error) {
	matches := slashDateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return "", fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if day < 1 || day > 31 {
		return "", fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("month must be between 1 and 12")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject dates that rolled over (31/02, 29/02 outside leap years)
	if date.Day() != day || date.Month() != time.Month(month) {
		return "", fmt.Errorf("invalid date")
	}
	return date.Format(models.DateLayout), nil
}

// parseRelative parses "3 days", "1 week" and friends relative to today
func parseRelative(input string, today time.Time) (string, error) {
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return "", fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return "", fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "day", "days", "d":
		if amount > 365 {
			return "", fmt.Errorf("days must be between 0 and 365")
		}
		return today.AddDate(0, 0, amount).Format(models.DateLayout), nil
	default:
		if amount < 1 || amount > 52 {
			return "", fmt.Errorf("weeks must be between 1 and 52")
		}
		return today.AddDate(0, 0, amount*7).Format(models.DateLayout), nil
	}
}

// FormatDeadline describes a deadline relative to today for listings
func FormatDeadline(deadline string, now time.Time) string {
	if deadline == "" {
		return ""
	}
	due, err := time.ParseInLocation(models.DateLayout, deadline, now.Location())
	if err != nil {
		return deadline
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysDiff := int(due.Sub(today).Round(time.Hour).Hours() / 24)

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("⚠️ OVERDUE (%s)", deadline)
	case daysDiff == 0:
		return fmt.Sprintf("🔥 Due today (%s)", deadline)
	case daysDiff == 1:
		return fmt.Sprintf("📅 Due tomorrow (%s)", deadline)
	case daysDiff <= 7:
		return fmt.Sprintf("📅 Due %s (in %d days)", deadline, daysDiff)
	default:
		return fmt.Sprintf("📅 Due %s", deadline)
	}
}
