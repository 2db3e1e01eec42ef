package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/planner"
	"github.com/balkashynov/ssp/internal/tui"
)

var pomoCmd = &cobra.Command{
	Use:   "pomo [task-id]",
	Short: "Run the pomodoro timer",
	Long: `Open the pomodoro timer. With a task id, every completed focus
interval is credited to that task.

Keys: space start/pause · r reset · t next task · x detach · q quit

Subcommands adjust a task's pomodoro count by hand:
  ssp pomo inc <task-id>
  ssp pomo dec <task-id>
  ssp pomo reset <task-id>`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationTUI: "true"},
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		if len(args) == 1 {
			task, err := resolveTask(p, args[0])
			if err != nil {
				return err
			}
			if err := p.AttachPomodoro(task.ID); err != nil {
				return err
			}
		}
		return tui.RunPomodoroTUI(p, cmd.OutOrStdout())
	}),
}

var pomoIncCmd = &cobra.Command{
	Use:   "inc <task-id>",
	Short: "Add a completed pomodoro to a task",
	Args:  cobra.ExactArgs(1),
	RunE:  withPlanner(pomoCounter((*planner.Planner).IncrementPomodoro)),
}

var pomoDecCmd = &cobra.Command{
	Use:   "dec <task-id>",
	Short: "Remove a completed pomodoro from a task",
	Args:  cobra.ExactArgs(1),
	RunE:  withPlanner(pomoCounter((*planner.Planner).DecrementPomodoro)),
}

var pomoResetCmd = &cobra.Command{
	Use:   "reset <task-id>",
	Short: "Reset a task's pomodoro count to zero",
	Args:  cobra.ExactArgs(1),
	RunE:  withPlanner(pomoCounter((*planner.Planner).ResetPomodoro)),
}

func pomoCounter(op func(*planner.Planner, string) (models.Task, error)) func(*cobra.Command, []string, *planner.Planner) error {
	return func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		task, err := resolveTask(p, args[0])
		if err != nil {
			return err
		}
		task, err = op(p, task.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🍅 %s: %d pomodoros\n", task.Title, task.PomodorosCompleted)
		return nil
	}
}

func init() {
	pomoCmd.AddCommand(pomoIncCmd)
	pomoCmd.AddCommand(pomoDecCmd)
	pomoCmd.AddCommand(pomoResetCmd)
}
