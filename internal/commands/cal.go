package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/clock"
	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/parser"
	"github.com/balkashynov/ssp/internal/planner"
	"github.com/balkashynov/ssp/internal/tui"
)

const (
	calCellWidth = 10
	calMaxDots   = 3
)

var calCmd = &cobra.Command{
	Use:   "cal [YYYY-MM]",
	Short: "Show a month calendar with task deadlines",
	Long: `Show a month calendar. Each day lists up to three dots colored by task
priority, then +N for the rest. Today is marked with '>'. The week starts on
the first_day setting (0 = Sunday).

Examples:
  ssp cal            # current month
  ssp cal 2026-09`,
	Args: cobra.MaximumNArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		now := wallClock.Now()
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		if len(args) == 1 {
			m, err := time.ParseInLocation("2006-01", args[0], now.Location())
			if err != nil {
				return fmt.Errorf("invalid month '%s'. Use: YYYY-MM", args[0])
			}
			month = m
		}

		fmt.Fprint(cmd.OutOrStdout(), renderMonth(month, p.Settings().FirstDay, clock.Today(wallClock), p.Tasks()))
		return nil
	}),
}

// renderMonth lays out the month containing first as a week grid
func renderMonth(first time.Time, firstDay int, today string, tasks []models.Task) string {
	byDate := make(map[string][]models.Task)
	for _, t := range tasks {
		if t.Deadline != "" {
			byDate[t.Deadline] = append(byDate[t.Deadline], t)
		}
	}

	cell := lipgloss.NewStyle().Width(calCellWidth)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tui.ColorAccentBright))
	headStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorSecondaryText))
	todayStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tui.ColorAccentMain))

	var b strings.Builder
	b.WriteString(titleStyle.Render(first.Format("January 2006")))
	b.WriteString("\n\n")

	for i := 0; i < 7; i++ {
		name := time.Weekday((firstDay + i) % 7).String()[:3]
		b.WriteString(cell.Render(headStyle.Render(name)))
	}
	b.WriteString("\n")

	daysInMonth := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, first.Location()).Day()
	col := (int(first.Weekday()) - firstDay + 7) % 7
	b.WriteString(strings.Repeat(cell.Render(""), col))

	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, first.Location()).Format(models.DateLayout)

		num := fmt.Sprintf(" %2d", d)
		if date == today {
			num = todayStyle.Render(fmt.Sprintf(">%2d", d))
		}
		b.WriteString(cell.Render(num + dayDots(byDate[date])))

		col++
		if col == 7 && d < daysInMonth {
			b.WriteString("\n")
			col = 0
		}
	}
	b.WriteString("\n")
	return b.String()
}

// dayDots renders up to three priority dots and a +N overflow
func dayDots(tasks []models.Task) string {
	var b strings.Builder
	for i, t := range tasks {
		if i == calMaxDots {
			fmt.Fprintf(&b, "+%d", len(tasks)-calMaxDots)
			break
		}
		b.WriteString(priorityStyle(t.Priority).Render("•"))
	}
	return b.String()
}

var dayCmd = &cobra.Command{
	Use:   "day <date> [add <title>]",
	Short: "List or add tasks due on a date",
	Long: `List the tasks due on a date, or quickly add one with that deadline.

Examples:
  ssp day 2026-05-14
  ssp day tomorrow add "Past paper" --subject Maths --priority high`,
	Args: cobra.MinimumNArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		date, err := parser.ParseDeadline(args[0], wallClock.Now())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) > 1 {
			if args[1] != "add" || len(args) < 3 {
				return fmt.Errorf("usage: ssp day <date> add <title> --subject <subject>")
			}
			subject, _ := cmd.Flags().GetString("subject")
			priority, _ := cmd.Flags().GetString("priority")
			note, _ := cmd.Flags().GetString("note")
			prio, err := models.ParsePriority(priority)
			if err != nil {
				return err
			}

			task, err := p.AddTask(planner.TaskInput{
				Subject:  subject,
				Title:    strings.Join(args[2:], " "),
				Deadline: date,
				Priority: prio,
				Notes:    note,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, tui.CelebrationBanner(task.Title))
			printCreated(out, task)
			return nil
		}

		tasks := p.TasksOn(date)
		fmt.Fprintf(out, "📅 %s\n", date)
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks for this day.")
			return nil
		}
		for _, t := range tasks {
			mark := "○"
			if t.Done {
				mark = "✓"
			}
			fmt.Fprintf(out, "  %s %s  %s (%s)\n", mark, shortID(t.ID), t.Label(), t.Priority)
		}
		return nil
	}),
}

func init() {
	addTaskFlags(dayCmd)
}
