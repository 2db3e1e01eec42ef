package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/clock"
	"github.com/balkashynov/ssp/internal/config"
	"github.com/balkashynov/ssp/internal/db"
	"github.com/balkashynov/ssp/internal/logging"
	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/planner"
	"github.com/balkashynov/ssp/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const annotationTUI = "tui"

var (
	flagDB       string
	flagMemory   bool
	flagLogLevel string
	flagNoColor  bool
)

// runtime holds what one invocation needs; set up in PersistentPreRunE
type runtime struct {
	cfg     *config.Config
	log     *slog.Logger
	started time.Time
}

var current = &runtime{log: logging.Discard()}

// wallClock is the time source for every command
var wallClock clock.Clock = clock.System{}

// loadConfig reads the layered configuration
var loadConfig = config.Load

// openBackend opens the persistence backend selected by config and flags
var openBackend = func(cfg *config.Config, memory bool) (db.Backend, error) {
	if memory {
		return db.NewMemoryBackend(), nil
	}
	return db.OpenSQLite(cfg.DBPath)
}

var rootCmd = &cobra.Command{
	Use:   "ssp",
	Short: "Smart Study Planner: tasks, sessions and a pomodoro timer",
	Long: `ssp is a terminal study planner.
Track study tasks by subject and deadline, log study sessions, run pomodoros
and see how your week went, all stored locally.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagDB != "" {
			cfg.DBPath = flagDB
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		if flagNoColor {
			cfg.NoColor = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if cfg.NoColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		current = &runtime{cfg: cfg, log: log, started: time.Now()}
		log.Debug("command started", "command", cmd.CommandPath(), "args", args)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		current.log.Debug("command finished", "command", cmd.CommandPath(), "duration", time.Since(current.started))
	},
}

// withPlanner opens the store and planner around a command and reports
// unsaved changes afterwards
func withPlanner(fn func(*cobra.Command, []string, *planner.Planner) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend(current.cfg, flagMemory)
		if err != nil {
			return err
		}
		store := db.NewStore(backend, current.log)
		defer store.Close()

		p := planner.New(store, planner.Options{Clock: wallClock, Logger: current.log})
		defer p.Close()

		// full-screen commands render their own celebration
		if cmd.Annotations[annotationTUI] == "" {
			out := cmd.OutOrStdout()
			p.Observe(planner.Hooks{
				Celebrate: func(task models.Task) {
					fmt.Fprintln(out, tui.CelebrationBanner(task.Title))
				},
			})
		}

		runErr := fn(cmd, args, p)
		if perr := p.PersistenceError(); perr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Warning: changes could not be saved: %v\n", perr)
		}
		return runErr
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ssp %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Path to the SQLite database (default ~/.ssp/ssp.db)")
	rootCmd.PersistentFlags().BoolVar(&flagMemory, "memory", false, "Keep everything in memory for this run")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(pomoCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(calCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
