package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/planner"
)

var doneCmd = &cobra.Command{
	Use:     "done <task-id>",
	Aliases: []string{"toggle"},
	Short:   "Toggle a task between done and todo",
	Args:    cobra.ExactArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		task, err := resolveTask(p, args[0])
		if err != nil {
			return err
		}

		task, err = p.ToggleDone(task.ID)
		if err != nil {
			return err
		}

		if task.Done {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Marked task %s as done: %s\n", shortID(task.ID), task.Title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "↩️  Marked task %s back to todo: %s\n", shortID(task.ID), task.Title)
		}
		return nil
	}),
}
