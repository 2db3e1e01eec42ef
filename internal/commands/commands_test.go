package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/ssp/internal/clock"
	"github.com/balkashynov/ssp/internal/config"
	"github.com/balkashynov/ssp/internal/db"
	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/planner"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// cli runs commands against an in-memory store and a fixed clock
type cli struct {
	backend *db.MemoryBackend
	clock   *clock.Fake
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	c := &cli{
		backend: db.NewMemoryBackend(),
		clock:   clock.NewFake(time.Date(2026, 5, 14, 10, 0, 0, 0, time.UTC)),
	}

	origOpen, origLoad, origClock := openBackend, loadConfig, wallClock
	openBackend = func(*config.Config, bool) (db.Backend, error) { return c.backend, nil }
	loadConfig = func() (*config.Config, error) {
		return &config.Config{DBPath: "/tmp/unused.db", LogLevel: "error", LogFormat: "text", NoColor: true}, nil
	}
	wallClock = c.clock
	t.Cleanup(func() {
		openBackend, loadConfig, wallClock = origOpen, origLoad, origClock
	})
	return c
}

func (c *cli) run(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer resetFlags(rootCmd)

	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := c.run(args...)
	require.NoError(t, err, out)
	return out
}

func (c *cli) tasks() []models.Task {
	store := db.NewStore(c.backend, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	return db.Load(store, db.TasksKey, []models.Task{})
}

func (c *cli) planner(t *testing.T) *planner.Planner {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	p := planner.New(db.NewStore(c.backend, log), planner.Options{
		Clock:     c.clock,
		Scheduler: clock.NewManualScheduler(),
		Logger:    log,
	})
	t.Cleanup(p.Close)
	return p
}

// resetFlags puts every flag back to its default so the next Execute
// starts clean
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestAddAndList(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun(t, "add", "Read ch4 @biology +high due:tomorrow")
	assert.Contains(t, out, "Created task")
	assert.Contains(t, out, "Subject: biology")
	assert.Contains(t, out, "Priority: high")
	assert.Contains(t, out, "Due tomorrow (2026-05-15)")

	out = c.mustRun(t, "ls")
	assert.Contains(t, out, "Read ch4")
	assert.Contains(t, out, "biology")
	assert.Contains(t, out, "2026-05-15")

	out = c.mustRun(t, "ls", "--json")
	var result struct {
		Count int           `json:"count"`
		Tasks []models.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, models.PriorityHigh, result.Tasks[0].Priority)

	out = c.mustRun(t, "ls", "--today")
	assert.Contains(t, out, "No tasks found")
}

func TestAddRequiresSubject(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("add", "Read ch4")
	require.ErrorIs(t, err, planner.ErrValidation)
	assert.Empty(t, c.tasks())

	_, err = c.run("add", "Read ch4 @bio +urgent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid priority 'urgent'")
}

func TestAddFlagsOverrideInline(t *testing.T) {
	c := newCLI(t)

	c.mustRun(t, "add", "Essay @history +high", "--subject", "English", "--priority", "low", "--note", "draft", "--due", "2026-06-01")

	tasks := c.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Essay", tasks[0].Title)
	assert.Equal(t, "English", tasks[0].Subject)
	assert.Equal(t, models.PriorityLow, tasks[0].Priority)
	assert.Equal(t, "draft", tasks[0].Notes)
	assert.Equal(t, "2026-06-01", tasks[0].Deadline)
}

func TestDoneCelebratesOnce(t *testing.T) {
	c := newCLI(t)
	c.mustRun(t, "add", "Essay @history")
	id := c.tasks()[0].ID

	out := c.mustRun(t, "done", id[:5])
	assert.Contains(t, out, `Nice work! "Essay"`)
	assert.Contains(t, out, "Marked task "+id[:8]+" as done")
	assert.True(t, c.tasks()[0].Done)

	out = c.mustRun(t, "done", id)
	assert.NotContains(t, out, "Nice work")
	assert.Contains(t, out, "back to todo")
}

func TestEdit(t *testing.T) {
	c := newCLI(t)
	c.mustRun(t, "add", "Essay @history")
	id := c.tasks()[0].ID

	_, err := c.run("edit", id)
	require.Error(t, err)

	c.mustRun(t, "edit", id, "--title", "Final essay", "--priority", "high")
	task := c.tasks()[0]
	assert.Equal(t, "Final essay", task.Title)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, "history", task.Subject)
}

func TestResolveTask(t *testing.T) {
	c := newCLI(t)
	p := c.planner(t)
	require.NoError(t, p.Import([]byte(`{"tasks":[
		{"id":"abc1","subject":"Math","title":"One","priority":"low"},
		{"id":"abc2","subject":"Math","title":"Two","priority":"low"},
		{"id":"xyz9","subject":"Math","title":"Three","priority":"low"}]}`)))

	task, err := resolveTask(p, "abc1")
	require.NoError(t, err)
	assert.Equal(t, "One", task.Title)

	task, err = resolveTask(p, "xy")
	require.NoError(t, err)
	assert.Equal(t, "Three", task.Title)

	_, err = resolveTask(p, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = resolveTask(p, "nope")
	assert.ErrorIs(t, err, planner.ErrNotFound)

	_, err = resolveTask(p, " ")
	assert.Error(t, err)
}

func TestRemoveAndClear(t *testing.T) {
	c := newCLI(t)
	c.mustRun(t, "add", "One @math")
	c.mustRun(t, "add", "Two @math")
	id := c.tasks()[0].ID

	out := c.mustRun(t, "rm", id)
	assert.Contains(t, out, "Deleted task "+id[:8]+": Two")
	require.Len(t, c.tasks(), 1)

	_, err := c.run("clear")
	require.Error(t, err)
	require.Len(t, c.tasks(), 1)

	out = c.mustRun(t, "clear", "--yes")
	assert.Contains(t, out, "Deleted 1 tasks")
	assert.Empty(t, c.tasks())
}

func TestSessionFlow(t *testing.T) {
	c := newCLI(t)
	c.mustRun(t, "add", "Essay @history")
	id := c.tasks()[0].ID

	out := c.mustRun(t, "status")
	assert.Contains(t, out, "No active study session")

	out = c.mustRun(t, "start", id)
	assert.Contains(t, out, "Started session")
	assert.Contains(t, out, "Essay — history")

	_, err := c.run("start")
	require.ErrorIs(t, err, planner.ErrConflict)

	c.clock.Advance(25 * time.Minute)
	out = c.mustRun(t, "status")
	assert.Contains(t, out, "Currently studying: Essay")
	assert.Contains(t, out, "25m")

	out = c.mustRun(t, "stop")
	assert.Contains(t, out, "Session duration: 25m")

	_, err = c.run("stop")
	require.ErrorIs(t, err, planner.ErrState)

	c.mustRun(t, "rm", id)
	out = c.mustRun(t, "sessions")
	assert.Contains(t, out, "(task)")
	assert.Contains(t, out, "25m")

	out = c.mustRun(t, "week")
	assert.Contains(t, out, "Thu 05-14")
	assert.Contains(t, out, "25m")

	sessionID := c.planner(t).Sessions()[0].ID
	out = c.mustRun(t, "sessions", "rm", sessionID[:6])
	assert.Contains(t, out, "Deleted session")
	out = c.mustRun(t, "sessions", "ls")
	assert.Contains(t, out, "No study sessions yet")
}

func TestPomoCounters(t *testing.T) {
	c := newCLI(t)
	c.mustRun(t, "add", "Essay @history")
	id := c.tasks()[0].ID

	c.mustRun(t, "pomo", "inc", id)
	c.mustRun(t, "pomo", "inc", id)
	c.mustRun(t, "pomo", "dec", id)
	assert.Equal(t, 1, c.tasks()[0].PomodorosCompleted)

	out := c.mustRun(t, "stats")
	assert.Contains(t, out, "Pomodoros: 1")
	assert.Contains(t, out, "Essay — history")

	c.mustRun(t, "pomo", "reset", id)
	c.mustRun(t, "pomo", "dec", id)
	assert.Equal(t, 0, c.tasks()[0].PomodorosCompleted)
}

func TestDayAddAndList(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun(t, "day", "tomorrow", "add", "Past", "paper", "--subject", "Maths", "--priority", "high")
	assert.Contains(t, out, `"Past paper"`)
	assert.Contains(t, out, "Created task")

	tasks := c.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "2026-05-15", tasks[0].Deadline)

	out = c.mustRun(t, "day", "2026-05-15")
	assert.Contains(t, out, "Past paper — Maths (high)")

	out = c.mustRun(t, "day", "today")
	assert.Contains(t, out, "No tasks for this day.")

	_, err := c.run("day", "tomorrow", "remove", "x")
	assert.Error(t, err)
}

func TestRenderMonth(t *testing.T) {
	first := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{Deadline: "2026-05-14", Priority: models.PriorityHigh},
		{Deadline: "2026-05-14", Priority: models.PriorityLow},
		{Deadline: "2026-05-14"},
		{Deadline: "2026-05-14"},
		{Deadline: "2026-05-20"},
		{},
	}

	out := renderMonth(first, 1, "2026-05-14", tasks)
	assert.Contains(t, out, "May 2026")
	assert.Contains(t, out, ">14•••+1")
	assert.Contains(t, out, " 20•")

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[2], "Mon"), "week starts on Monday")
	// 1 May 2026 is a Friday: four empty cells before it
	assert.True(t, strings.HasPrefix(lines[3], strings.Repeat(" ", 4*calCellWidth)+"  1"))

	out = renderMonth(first, 0, "2026-04-30", nil)
	assert.NotContains(t, out, ">")
	assert.True(t, strings.HasPrefix(strings.Split(out, "\n")[2], "Sun"))
}

func TestApplySetting(t *testing.T) {
	tests := []struct {
		arg     string
		check   func(models.Settings) bool
		wantErr bool
	}{
		{arg: "focus=50", check: func(s models.Settings) bool { return s.FocusMinutes == 50 }},
		{arg: "break = 10", check: func(s models.Settings) bool { return s.BreakMinutes == 10 }},
		{arg: "theme=LIGHT", check: func(s models.Settings) bool { return s.Theme == models.ThemeLight }},
		{arg: "first-day=1", check: func(s models.Settings) bool { return s.FirstDay == 1 }},
		{arg: "reminders=true", check: func(s models.Settings) bool { return s.Reminders }},
		{arg: "focus=abc", wantErr: true},
		{arg: "reminders=maybe", wantErr: true},
		{arg: "colour=red", wantErr: true},
		{arg: "focus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			s := models.DefaultSettings()
			err := applySetting(&s, tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.check(s))
		})
	}
}

func TestSettingsSetNormalizes(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun(t, "settings", "set", "focus=0", "break=-3", "theme=neon", "first-day=9")
	assert.Contains(t, out, "focus 25m, break 1m, theme dark, first day Sunday")

	c.mustRun(t, "settings", "set", "focus=50", "first-day=1")
	out = c.mustRun(t, "settings")
	assert.Contains(t, out, "focus_minutes: 50")
	assert.Contains(t, out, "first_day: 1")
}

func TestSearchTasksRanking(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", Title: "Applied math", Subject: "X"},
		{ID: "b", Title: "Math", Subject: "X"},
		{ID: "c", Title: "Mathematics", Subject: "X"},
		{ID: "d", Title: "Do the math homework", Subject: "X"},
		{ID: "e", Title: "Essay", Subject: "History"},
	}

	got := searchTasks(tasks, "MATH")
	ids := make([]string, len(got))
	for i, task := range got {
		ids[i] = task.ID
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids)
	assert.Empty(t, searchTasks(tasks, "  "))
}

func TestExportImport(t *testing.T) {
	c := newCLI(t)
	c.mustRun(t, "add", "Essay @history +high")
	c.mustRun(t, "settings", "set", "focus=40")

	dir := t.TempDir()
	out := c.mustRun(t, "export", dir)
	path := filepath.Join(dir, "ssp_backup_2026-05-14.json")
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"focusMinutes": 40`)

	other := newCLI(t)
	out = other.mustRun(t, "import", path)
	assert.Contains(t, out, "Imported successfully: 1 tasks, 0 sessions")
	require.Len(t, other.tasks(), 1)
	assert.Equal(t, "Essay", other.tasks()[0].Title)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0o644))
	_, err = other.run("import", bad)
	assert.ErrorIs(t, err, planner.ErrImport)

	out = other.mustRun(t, "export", "--stdout")
	assert.Contains(t, out, `"title": "Essay"`)
}

func TestConfigAndHelp(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun(t, "config")
	assert.Contains(t, out, "db_path: /tmp/unused.db")
	assert.Contains(t, out, "log_level: error")

	out = c.mustRun(t, "help")
	assert.Contains(t, out, "Smart Study Planner")
	assert.Contains(t, out, "IDs can be shortened")

	out = c.mustRun(t, "version")
	assert.Contains(t, out, "ssp dev")
}
