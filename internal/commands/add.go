package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/parser"
	"github.com/balkashynov/ssp/internal/planner"
)

var addCmd = &cobra.Command{
	Use:   "add <task description>",
	Short: "Add a new study task",
	Long: `Add a new study task. Metadata can be given inline or with flags;
flags take precedence over inline tokens.

Smart parsing syntax:
  @subject    - Subject (use _ for spaces: @world_history)
  +priority   - Priority (low/medium/high or 1/2/3, default medium)
  due:when    - Deadline (YYYY-MM-DD, dd/mm/yyyy, today, tomorrow, X days, X weeks)

Examples:
  ssp add "Read chapter 4 @biology +high due:tomorrow"
  ssp add "Past paper" --subject Maths --due 2026-06-01 --note "timed"`,
	Args: cobra.MinimumNArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		parsed := parser.ParseQuickAdd(strings.Join(args, " "), wallClock.Now())
		if parsed.HasErrors() {
			return fmt.Errorf("found issues with parsing: %s", strings.Join(parsed.Errors, ", "))
		}

		in, err := taskInputFromFlags(cmd, parsed)
		if err != nil {
			return err
		}
		task, err := p.AddTask(in)
		if err != nil {
			return err
		}

		printCreated(cmd.OutOrStdout(), task)
		return nil
	}),
}

// taskInputFromFlags merges parsed inline tokens with explicit flags
func taskInputFromFlags(cmd *cobra.Command, parsed parser.ParsedTask) (planner.TaskInput, error) {
	in := planner.TaskInput{
		Title:    parsed.Title,
		Subject:  parsed.Subject,
		Priority: parsed.Priority,
		Deadline: parsed.Deadline,
	}

	if subject, _ := cmd.Flags().GetString("subject"); subject != "" {
		in.Subject = subject
	}
	if priority, _ := cmd.Flags().GetString("priority"); priority != "" {
		p, err := models.ParsePriority(priority)
		if err != nil {
			return planner.TaskInput{}, err
		}
		in.Priority = p
	}
	if due, _ := cmd.Flags().GetString("due"); due != "" {
		deadline, err := parser.ParseDeadline(due, wallClock.Now())
		if err != nil {
			return planner.TaskInput{}, fmt.Errorf("error parsing due date: %w", err)
		}
		in.Deadline = deadline
	}
	in.Notes, _ = cmd.Flags().GetString("note")

	if in.Subject == "" {
		return planner.TaskInput{}, fmt.Errorf("%w: a subject is required, add @subject or --subject", planner.ErrValidation)
	}
	return in, nil
}

// printCreated prints the summary shown after a task is created
func printCreated(w io.Writer, task models.Task) {
	fmt.Fprintf(w, "Created task %s: %s\n", shortID(task.ID), task.Title)
	fmt.Fprintf(w, "  Subject: %s\n", task.Subject)
	fmt.Fprintf(w, "  Priority: %s\n", task.Priority)
	if task.Deadline != "" {
		fmt.Fprintf(w, "  Due: %s\n", parser.FormatDeadline(task.Deadline, wallClock.Now()))
	}
	if task.Notes != "" {
		fmt.Fprintf(w, "  Notes: %s\n", task.Notes)
	}
}

// addTaskFlags registers the metadata flags shared by add and day add
func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("subject", "s", "", "Subject, e.g. Maths")
	cmd.Flags().StringP("priority", "p", "", "Priority: low, medium, high, or 1-3")
	cmd.Flags().StringP("note", "n", "", "Additional notes")
}

func init() {
	addTaskFlags(addCmd)
	addCmd.Flags().StringP("due", "d", "", "Deadline: YYYY-MM-DD, dd/mm/yyyy, today, tomorrow, X days, X weeks")
}
