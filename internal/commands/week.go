package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/planner"
	"github.com/balkashynov/ssp/internal/tui"
)

const barWidth = 30

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show study minutes for the last 7 days",
	Long: `Show a bar chart of tracked study minutes for the last 7 days, oldest
first, followed by a per-task timesheet.

Example output:
  Thu 05-08  ████████░░░░░░░░░░░░  45m
  ...
  Task                    Thu  Fri  Sat  Sun  Mon  Tue  Wed  Total`,
	Args: cobra.NoArgs,
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		view := p.View()
		out := cmd.OutOrStdout()

		renderWeeklyBars(out, view.Weekly)
		fmt.Fprintln(out)
		renderTimesheet(out, p, view.Weekly, view.Sessions)
		return nil
	}),
}

// renderWeeklyBars prints one bar per day scaled to the busiest day
func renderWeeklyBars(w io.Writer, days []planner.DayMinutes) {
	maxMinutes, total := 0, 0
	for _, d := range days {
		total += d.Minutes
		if d.Minutes > maxMinutes {
			maxMinutes = d.Minutes
		}
	}

	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorAccentBright))
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorBorder))
	for _, d := range days {
		filled := 0
		if maxMinutes > 0 {
			filled = d.Minutes * barWidth / maxMinutes
		}
		if d.Minutes > 0 && filled == 0 {
			filled = 1
		}
		fmt.Fprintf(w, "%s  %s%s  %s\n",
			dayLabel(d.Date),
			bar.Render(strings.Repeat("█", filled)),
			empty.Render(strings.Repeat("░", barWidth-filled)),
			formatMinutes(d.Minutes))
	}
	fmt.Fprintf(w, "%-9s  %s  %s\n", "Total", strings.Repeat(" ", barWidth), formatMinutes(total))
}

// dayLabel renders YYYY-MM-DD as "Mon 01-02"
func dayLabel(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Mon 01-02")
}

// renderTimesheet outputs minutes per task and day for the window
func renderTimesheet(w io.Writer, p *planner.Planner, days []planner.DayMinutes, sessions []models.Session) {
	inWindow := make(map[string]int, len(days))
	for i, d := range days {
		inWindow[d.Date] = i
	}

	// Group sessions by task label and day
	rows := make(map[string][]int)
	for _, s := range sessions {
		i, ok := inWindow[s.Start.In(wallClock.Now().Location()).Format(models.DateLayout)]
		if !ok || s.Duration == 0 {
			continue
		}
		key := sessionTaskTitle(p, s)
		if rows[key] == nil {
			rows[key] = make([]int, len(days))
		}
		rows[key][i] += s.Duration
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No time tracked in the last 7 days.")
		return
	}

	var keys []string
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nameWidth := 20
	for _, k := range keys {
		if len(k) > nameWidth {
			nameWidth = len(k)
		}
	}
	if nameWidth > 40 {
		nameWidth = 40
	}

	fmt.Fprintf(w, "%-*s", nameWidth, "Task")
	for _, d := range days {
		fmt.Fprintf(w, "  %5s", dayLabel(d.Date)[:3])
	}
	fmt.Fprintf(w, "  %6s\n", "Total")
	separator := strings.Repeat("-", nameWidth) + strings.Repeat("  -----", len(days)) + "  ------"
	fmt.Fprintln(w, separator)

	dayTotals := make([]int, len(days))
	grand := 0
	for _, k := range keys {
		fmt.Fprintf(w, "%-*s", nameWidth, truncate(k, nameWidth))
		rowTotal := 0
		for i, m := range rows[k] {
			if m > 0 {
				fmt.Fprintf(w, "  %5d", m)
			} else {
				fmt.Fprintf(w, "  %5s", "-")
			}
			dayTotals[i] += m
			rowTotal += m
		}
		fmt.Fprintf(w, "  %6d\n", rowTotal)
		grand += rowTotal
	}

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "%-*s", nameWidth, "Total")
	for _, m := range dayTotals {
		fmt.Fprintf(w, "  %5d", m)
	}
	fmt.Fprintf(w, "  %6d\n", grand)
	fmt.Fprintf(w, "\nMinutes, %s to %s\n", days[0].Date, days[len(days)-1].Date)
}
