package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/planner"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start a study session",
	Long: `Start tracking a study session, optionally against a task.
The session keeps running after the command exits; stop it with 'ssp stop'.

Examples:
  ssp start          # session without a task
  ssp start 3f2a     # session for task 3f2a...`,
	Args: cobra.MaximumNArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		taskID := ""
		label := "no task"
		if len(args) == 1 {
			task, err := resolveTask(p, args[0])
			if err != nil {
				return err
			}
			taskID = task.ID
			label = task.Label()
		}

		session, err := p.StartSession(taskID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "⏱️  Started session %s (%s)\n", shortID(session.ID), label)
		fmt.Fprintf(cmd.OutOrStdout(), "Started at: %s\n", session.Start.Format("15:04:05"))
		return nil
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running study session",
	Args:  cobra.NoArgs,
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		session, err := p.StopSession()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "⏹️  Stopped session %s (%s)\n", shortID(session.ID), sessionTaskTitle(p, session))
		fmt.Fprintf(cmd.OutOrStdout(), "Session duration: %s\n", formatMinutes(session.Duration))
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running study session",
	Args:  cobra.NoArgs,
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		session, ok := p.ActiveSession()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No active study session")
			return nil
		}

		elapsed := wallClock.Now().Sub(session.Start)
		fmt.Fprintf(cmd.OutOrStdout(), "⏱️  Currently studying: %s\n", sessionTaskTitle(p, session))
		fmt.Fprintf(cmd.OutOrStdout(), "Started at: %s\n", session.Start.Format("15:04:05"))
		fmt.Fprintf(cmd.OutOrStdout(), "Elapsed time: %s\n", formatDuration(elapsed))
		return nil
	}),
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List or delete study sessions",
	Args:  cobra.NoArgs,
	RunE:  withPlanner(listSessions),
}

var sessionsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List study sessions, most recent first",
	Args:    cobra.NoArgs,
	RunE:    withPlanner(listSessions),
}

var sessionsRemoveCmd = &cobra.Command{
	Use:     "rm <session-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a study session",
	Args:    cobra.ExactArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		session, err := resolveSession(p, args[0])
		if err != nil {
			return err
		}
		if _, err := p.RemoveSession(session.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted session %s\n", shortID(session.ID))
		return nil
	}),
}

func listSessions(cmd *cobra.Command, args []string, p *planner.Planner) error {
	sessions := p.Sessions()
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No study sessions yet. Use 'ssp start' to begin one.")
		return nil
	}
	renderSessionTable(cmd.OutOrStdout(), p, sessions)
	return nil
}

// renderSessionTable prints sessions with their resolved task titles
func renderSessionTable(w io.Writer, p *planner.Planner, sessions []models.Session) {
	fmt.Fprintf(w, "%-8s %-34s %-16s %-8s %s\n", "ID", "TASK", "START", "STOP", "DURATION")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	loc := wallClock.Now().Location()
	for _, s := range sessions {
		stop := "running"
		duration := "-"
		if s.Stop != nil {
			stop = s.Stop.In(loc).Format("15:04")
			duration = formatMinutes(s.Duration)
		}
		fmt.Fprintf(w, "%-8s %-34s %-16s %-8s %s\n",
			shortID(s.ID),
			truncate(sessionTaskTitle(p, s), 34),
			s.Start.In(loc).Format("2006-01-02 15:04"),
			stop,
			duration)
	}
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsRemoveCmd)
}
