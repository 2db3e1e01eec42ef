package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/planner"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show study settings",
	Args:  cobra.NoArgs,
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		out, err := yaml.Marshal(p.Settings())
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	}),
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Change study settings",
	Long: `Change one or more settings. Values are normalized on save: 0 minutes
falls back to the default, negative minutes become 1, an unknown theme becomes
dark and a first day outside 0-6 becomes 0 (Sunday).

Keys:
  focus       Focus minutes (default 25)
  break       Break minutes (default 5)
  theme       dark or light
  first-day   First day of the week, 0 = Sunday ... 6 = Saturday
  reminders   true or false

Example:
  ssp settings set focus=50 break=10 first-day=1`,
	Args: cobra.MinimumNArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		s := p.Settings()
		for _, arg := range args {
			if err := applySetting(&s, arg); err != nil {
				return err
			}
		}

		saved, err := p.UpdateSettings(s)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "⚙️  Settings saved: focus %dm, break %dm, theme %s, first day %s, reminders %t\n",
			saved.FocusMinutes, saved.BreakMinutes, saved.Theme, weekdayName(saved.FirstDay), saved.Reminders)
		return nil
	}),
}

// applySetting parses one key=value pair into s
func applySetting(s *models.Settings, arg string) error {
	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("invalid setting '%s'. Use: key=value", arg)
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case "focus", "focus_minutes", "focusminutes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("focus must be a number of minutes")
		}
		s.FocusMinutes = n
	case "break", "break_minutes", "breakminutes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("break must be a number of minutes")
		}
		s.BreakMinutes = n
	case "theme":
		s.Theme = models.Theme(strings.ToLower(value))
	case "first-day", "first_day", "firstday":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("first-day must be 0-6 (0 = Sunday)")
		}
		s.FirstDay = n
	case "reminders":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("reminders must be true or false")
		}
		s.Reminders = b
	default:
		return fmt.Errorf("unknown setting '%s'. Use: focus, break, theme, first-day, reminders", key)
	}
	return nil
}

func weekdayName(day int) string {
	if day < 0 || day > 6 {
		return strconv.Itoa(day)
	}
	return []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}[day]
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}
