package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/planner"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task and pomodoro totals",
	Args:  cobra.NoArgs,
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		view := p.View()
		out := cmd.OutOrStdout()

		weekTotal := 0
		for _, d := range view.Weekly {
			weekTotal += d.Minutes
		}

		fmt.Fprintf(out, "📋 Tasks: %d (%d due today)\n", view.Stats.TotalTasks, len(view.TodayTasks))
		fmt.Fprintf(out, "🍅 Pomodoros: %d\n", view.Stats.TotalPomodoros)
		fmt.Fprintf(out, "⏱️  Studied this week: %s\n", formatMinutes(weekTotal))
		if view.Active != nil {
			fmt.Fprintf(out, "▶️  Session running since %s\n", view.Active.Start.Format("15:04"))
		}

		if len(view.Pomodoros) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-8s %-40s %s\n", "ID", "TASK", "🍅")
		for _, tp := range view.Pomodoros {
			fmt.Fprintf(out, "%-8s %-40s %d\n", shortID(tp.Task.ID), truncate(tp.Task.Label(), 40), tp.Pomodoros)
		}
		return nil
	}),
}
