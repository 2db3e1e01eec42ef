package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/clock"
	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/parser"
	"github.com/balkashynov/ssp/internal/planner"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long:    "List tasks, most recent first, with optional filters for date, subject and status",
	Args:    cobra.NoArgs,
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		tasks := p.Tasks()

		today, _ := cmd.Flags().GetBool("today")
		date, _ := cmd.Flags().GetString("date")
		if today {
			date = clock.Today(wallClock)
		}
		if date != "" {
			day, err := parser.ParseDeadline(date, wallClock.Now())
			if err != nil {
				return err
			}
			tasks = p.TasksOn(day)
		}

		subject, _ := cmd.Flags().GetString("subject")
		pending, _ := cmd.Flags().GetBool("pending")
		tasks = filterTasks(tasks, subject, pending)

		if sortBy, _ := cmd.Flags().GetString("sort"); sortBy != "" {
			if err := sortTasks(tasks, sortBy); err != nil {
				return err
			}
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return renderTasksJSON(cmd.OutOrStdout(), tasks)
		}

		if len(tasks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tasks found. Use 'ssp add \"task @subject\"' to create your first task.")
			return nil
		}
		renderTaskTable(cmd.OutOrStdout(), tasks)
		return nil
	}),
}

// filterTasks keeps tasks matching subject (case-insensitive) and, when
// pending is set, only unfinished ones
func filterTasks(tasks []models.Task, subject string, pending bool) []models.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if subject != "" && !strings.EqualFold(t.Subject, subject) {
			continue
		}
		if pending && t.Done {
			continue
		}
		out = append(out, t)
	}
	return out
}

// sortTasks orders tasks by deadline, priority or subject; stable so the
// most recent first order breaks ties
func sortTasks(tasks []models.Task, by string) error {
	switch by {
	case "due":
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].Deadline, tasks[j].Deadline
			if a == "" || b == "" {
				return b == "" && a != ""
			}
			return a < b
		})
	case "priority":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		})
	case "subject":
		sort.SliceStable(tasks, func(i, j int) bool {
			return strings.ToLower(tasks[i].Subject) < strings.ToLower(tasks[j].Subject)
		})
	default:
		return fmt.Errorf("invalid sort '%s'. Use: due, priority, subject", by)
	}
	return nil
}

// renderTaskTable prints tasks as a fixed-width table
func renderTaskTable(w io.Writer, tasks []models.Task) {
	fmt.Fprintf(w, "%-8s %-6s %-34s %-14s %-5s %-10s %s\n", "ID", "STATUS", "TITLE", "SUBJECT", "PRIO", "DUE", "🍅")
	fmt.Fprintln(w, strings.Repeat("-", 86))

	for _, task := range tasks {
		status := "○ todo"
		if task.Done {
			status = "✓ done"
		}
		due := task.Deadline
		if due == "" {
			due = "-"
		}
		fmt.Fprintf(w, "%-8s %-6s %-34s %-14s %s %-10s %d\n",
			shortID(task.ID),
			status,
			truncate(task.Title, 34),
			truncate(task.Subject, 14),
			priorityStyle(task.Priority).Render(fmt.Sprintf("%-5s", priorityLabel(task.Priority))),
			due,
			task.PomodorosCompleted)
	}
}

// renderTasksJSON outputs tasks in the persisted JSON shape
func renderTasksJSON(w io.Writer, tasks []models.Task) error {
	type result struct {
		Count int           `json:"count"`
		Tasks []models.Task `json:"tasks"`
	}
	data, err := json.MarshalIndent(result{Count: len(tasks), Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func init() {
	listCmd.Flags().Bool("today", false, "Show only tasks due today")
	listCmd.Flags().String("date", "", "Show only tasks due on a date (YYYY-MM-DD, dd/mm/yyyy, tomorrow...)")
	listCmd.Flags().StringP("subject", "s", "", "Filter by subject")
	listCmd.Flags().Bool("pending", false, "Hide completed tasks")
	listCmd.Flags().String("sort", "", "Sort by: due, priority, subject")
	listCmd.Flags().Bool("json", false, "Output as JSON")
}
