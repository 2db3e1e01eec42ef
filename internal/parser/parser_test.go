package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/ssp/internal/models"
)

var now = time.Date(2026, 2, 26, 15, 4, 0, 0, time.UTC)

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"2026-03-10", "2026-03-10", false},
		{"10/03/2026", "2026-03-10", false},
		{"5/3/2026", "2026-03-05", false},
		{"today", "2026-02-26", false},
		{"Tomorrow", "2026-02-27", false},
		{"3 days", "2026-03-01", false},
		{"3days", "2026-03-01", false},
		{"1 day", "2026-02-27", false},
		{"2 weeks", "2026-03-12", false},
		{"1w", "2026-03-05", false},
		{"30/02/2026", "", true},
		{"29/02/2028", "2028-02-29", false},
		{"10/13/2026", "", true},
		{"0 weeks", "", true},
		{"400 days", "", true},
		{"someday", "", true},
		{"2026-13-01", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDeadline(tt.in, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDeadline(t *testing.T) {
	assert.Equal(t, "", FormatDeadline("", now))
	assert.Contains(t, FormatDeadline("2026-02-20", now), "OVERDUE")
	assert.Contains(t, FormatDeadline("2026-02-26", now), "Due today")
	assert.Contains(t, FormatDeadline("2026-02-27", now), "Due tomorrow")
	assert.Contains(t, FormatDeadline("2026-03-02", now), "in 4 days")
	assert.Equal(t, "📅 Due 2026-04-01", FormatDeadline("2026-04-01", now))
	assert.Equal(t, "garbage", FormatDeadline("garbage", now))
}

func TestParseQuickAdd(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		title    string
		subject  string
		priority models.Priority
		deadline string
		errs     int
	}{
		{
			name:     "all tokens",
			in:       "Read chapter 4 @math +high due:tomorrow",
			title:    "Read chapter 4",
			subject:  "math",
			priority: models.PriorityHigh,
			deadline: "2026-02-27",
		},
		{
			name:     "tokens anywhere",
			in:       "@world_history essay draft due:10/03/2026",
			title:    "essay draft",
			subject:  "world history",
			deadline: "2026-03-10",
		},
		{
			name:     "numeric priority",
			in:       "flashcards +1",
			title:    "flashcards",
			priority: models.PriorityLow,
		},
		{
			name:  "plus inside a word is kept",
			in:    "revise C++ notes",
			title: "revise C++ notes",
		},
		{
			name:  "bad tokens are reported",
			in:    "lab +urgent due:someday",
			title: "lab",
			errs:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuickAdd(tt.in, now)
			assert.Equal(t, tt.title, got.Title)
			assert.Equal(t, tt.subject, got.Subject)
			assert.Equal(t, tt.priority, got.Priority)
			assert.Equal(t, tt.deadline, got.Deadline)
			assert.Len(t, got.Errors, tt.errs)
			assert.Equal(t, tt.errs > 0, got.HasErrors())
		})
	}
}
