package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/parser"
	"github.com/balkashynov/ssp/internal/planner"
)

var editCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit an existing task",
	Long: `Edit fields of an existing task. Only the flags you pass are changed.

Usage:
  ssp edit 3f2a --title "Read chapter 5"
  ssp edit 3f2a --due tomorrow --priority high
  ssp edit 3f2a --due ""          # clear the deadline`,
	Args: cobra.ExactArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		task, err := resolveTask(p, args[0])
		if err != nil {
			return err
		}

		var patch planner.TaskPatch
		flags := cmd.Flags()
		if flags.Changed("title") {
			v, _ := flags.GetString("title")
			patch.Title = &v
		}
		if flags.Changed("subject") {
			v, _ := flags.GetString("subject")
			patch.Subject = &v
		}
		if flags.Changed("note") {
			v, _ := flags.GetString("note")
			patch.Notes = &v
		}
		if flags.Changed("priority") {
			v, _ := flags.GetString("priority")
			prio, err := models.ParsePriority(v)
			if err != nil {
				return err
			}
			patch.Priority = &prio
		}
		if flags.Changed("due") {
			v, _ := flags.GetString("due")
			deadline, err := parser.ParseDeadline(v, wallClock.Now())
			if err != nil {
				return fmt.Errorf("error parsing due date: %w", err)
			}
			patch.Deadline = &deadline
		}

		if patch == (planner.TaskPatch{}) {
			return fmt.Errorf("nothing to change, pass at least one of --title, --subject, --priority, --due, --note")
		}

		updated, err := p.UpdateTask(task.ID, patch)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated task %s: %s\n", shortID(updated.ID), updated.Label())
		return nil
	}),
}

func init() {
	editCmd.Flags().StringP("title", "t", "", "New title")
	editCmd.Flags().StringP("subject", "s", "", "New subject")
	editCmd.Flags().StringP("priority", "p", "", "New priority: low, medium, high, or 1-3")
	editCmd.Flags().StringP("due", "d", "", "New deadline, empty to clear")
	editCmd.Flags().StringP("note", "n", "", "New notes")
}
