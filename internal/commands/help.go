package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/tui"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show help for ssp or a command",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if target, _, err := rootCmd.Find(args); err == nil && target != rootCmd {
				_ = target.Help()
				return
			}
		}
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(w io.Writer) {
	logo := lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorAccentMain)).Bold(true)
	fmt.Fprintln(w, logo.Render(tui.Logo))
	fmt.Fprint(w, `
ssp - Smart Study Planner

TASKS:

  add <task>              Create a task with smart parsing
    -s, --subject         Subject
    -p, --priority        Priority: low|medium|high (default medium)
    -d, --due             Deadline (YYYY-MM-DD, dd/mm/yyyy, today, tomorrow, 3 days, 2 weeks)
    -n, --note            Notes

    Smart syntax:
      @subject      Set subject (@world_history for spaces)
      +priority     Set priority
      due:tomorrow  Set deadline

    Example:
      ssp add "Read chapter 4 @biology +high due:tomorrow"

  ls                      List tasks
    --today               Only tasks due today
    --date <date>         Only tasks due on a date
    --subject <name>      Filter by subject
    --pending             Hide completed tasks
    --sort <field>        due|priority|subject
    --json                JSON output

  edit <id>               Change fields of a task
  done <id>               Toggle done/todo (celebrates on done)
  rm <id>                 Delete a task (sessions are kept)
  clear --yes             Delete all tasks
  search <query>          Search title, subject, notes

CALENDAR:

  cal [YYYY-MM]           Month grid with deadline dots
  day <date>              Tasks due on a date
  day <date> add <title>  Quick-add a task for that date

STUDY TIME:

  start [id]              Start a study session (optionally for a task)
  stop                    Stop the running session
  status                  Show the running session
  sessions [ls|rm <id>]   List or delete sessions
  week                    Minutes per day for the last 7 days
  stats                   Task, pomodoro and weekly totals

POMODORO:

  pomo [id]               Full-screen pomodoro timer, credits the task
  pomo inc|dec|reset <id> Adjust a task's pomodoro count

OTHER:

  ui                      Full-screen dashboard
  settings [set k=v...]   Show or change focus/break minutes, theme, first day
  config                  Show effective configuration
  export [dir]            Write ssp_backup_YYYY-MM-DD.json
  import <file>           Restore from a backup
  version                 Show version

IDs can be shortened to any unique prefix.

`)
}
