package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/planner"
)

var removeCmd = &cobra.Command{
	Use:     "rm <task-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Long: `Delete a task. Study sessions logged against it are kept and show
"(task)" in listings.`,
	Args: cobra.ExactArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		task, err := resolveTask(p, args[0])
		if err != nil {
			return err
		}
		if _, err := p.RemoveTask(task.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted task %s: %s\n", shortID(task.ID), task.Title)
		return nil
	}),
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tasks",
	Args:  cobra.NoArgs,
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("this deletes every task, re-run with --yes to confirm")
		}
		n, err := p.ClearTasks()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted %d tasks\n", n)
		return nil
	}),
}

func init() {
	clearCmd.Flags().BoolP("yes", "y", false, "Confirm deleting all tasks")
}
