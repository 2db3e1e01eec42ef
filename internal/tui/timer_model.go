package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/planner"
	"github.com/balkashynov/ssp/internal/pomodoro"
)

// refreshInterval is how often the timer screen re-reads the engine
const refreshInterval = 250 * time.Millisecond

// bannerFrames keeps a phase banner up for about five seconds
const bannerFrames = 20

type pomodoroKeys struct {
	Toggle key.Binding
	Reset  key.Binding
	Next   key.Binding
	Detach key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k pomodoroKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Next, k.Help, k.Quit}
}

func (k pomodoroKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset},
		{k.Next, k.Detach},
		{k.Help, k.Quit},
	}
}

var defaultPomodoroKeys = pomodoroKeys{
	Toggle: key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space", "start/pause")),
	Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Next:   key.NewBinding(key.WithKeys("t", "tab"), key.WithHelp("t", "next task")),
	Detach: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "detach task")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// pomodoroTickMsg drives the screen refresh
type pomodoroTickMsg struct{}

// PomodoroModel is the full-screen focus/break timer
type PomodoroModel struct {
	planner  *planner.Planner
	keys     pomodoroKeys
	help     help.Model
	progress progress.Model

	width  int
	height int

	status   pomodoro.Status
	task     *models.Task
	settings models.Settings
	seq      uint64

	banner    string
	bannerTTL int
	notice    string
	completed int // focus intervals finished while the screen was open

	bell io.Writer
}

// NewPomodoroModel builds the timer screen for p's engine
func NewPomodoroModel(p *planner.Planner) PomodoroModel {
	m := PomodoroModel{
		planner:  p,
		keys:     defaultPomodoroKeys,
		help:     help.New(),
		progress: progress.New(progress.WithGradient(ColorAccentMain, ColorAccentBright), progress.WithoutPercentage()),
		bell:     os.Stderr,
	}
	m.settings = p.Settings()
	m.refresh()
	return m
}

func (m *PomodoroModel) refresh() {
	m.status = m.planner.Engine().Status()
	m.task = nil
	if t, ok := m.planner.AttachedTask(); ok {
		m.task = &t
	}
}

func tickPomodoro() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return pomodoroTickMsg{}
	})
}

// Init starts the refresh loop
func (m PomodoroModel) Init() tea.Cmd {
	return tickPomodoro()
}

// Update handles messages
func (m PomodoroModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pomodoroTickMsg:
		m.refresh()
		if m.bannerTTL > 0 {
			m.bannerTTL--
			if m.bannerTTL == 0 {
				m.banner = ""
			}
		}
		return m, tickPomodoro()

	case viewMsg:
		if msg.seq < m.seq {
			return m, nil
		}
		m.seq = msg.seq
		m.settings = msg.view.Settings
		m.refresh()
		return m, nil

	case phaseMsg:
		m.settings = msg.view.Settings
		m.refresh()
		m.banner = phaseBanner(msg.event, m.task)
		m.bannerTTL = bannerFrames
		if msg.event.Completed == pomodoro.Focus {
			m.completed++
		}
		if m.settings.Reminders {
			return m, m.ring()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = clamp(msg.Width-16, 10, 60)
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if m.status.State == pomodoro.RunningFocus || m.status.State == pomodoro.RunningBreak {
				m.planner.PausePomodoro()
			} else {
				m.planner.StartPomodoro()
			}
		case key.Matches(msg, m.keys.Reset):
			m.planner.ResetTimer()
		case key.Matches(msg, m.keys.Next):
			m.attachNext()
		case key.Matches(msg, m.keys.Detach):
			_ = m.planner.AttachPomodoro("")
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		m.refresh()
		return m, nil
	}

	return m, nil
}

// attachNext moves the attachment to the next unfinished task, wrapping
func (m *PomodoroModel) attachNext() {
	var pending []models.Task
	for _, t := range m.planner.Tasks() {
		if !t.Done {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		m.notice = "No pending tasks to attach"
		return
	}

	next := 0
	if m.task != nil {
		for i, t := range pending {
			if t.ID == m.task.ID {
				next = (i + 1) % len(pending)
				break
			}
		}
	}
	if err := m.planner.AttachPomodoro(pending[next].ID); err != nil {
		m.notice = err.Error()
	}
}

func (m PomodoroModel) ring() tea.Cmd {
	w := m.bell
	return func() tea.Msg {
		fmt.Fprint(w, "\a")
		return nil
	}
}

func phaseBanner(ev pomodoro.PhaseEvent, task *models.Task) string {
	if ev.Completed == pomodoro.Focus {
		if task != nil && task.ID == ev.TaskID {
			return fmt.Sprintf("🍅 Focus done! +1 for \"%s\". Time for a break", task.Title)
		}
		return "🍅 Focus done! Time for a break"
	}
	return "☕ Break over. Back to focus"
}

// View renders the timer screen
func (m PomodoroModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	pal := paletteFor(m.settings.Theme)
	center := lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center)

	var parts []string
	parts = append(parts, center.Render(m.renderHeader(pal)))
	parts = append(parts, center.Render(bigClock(pomodoro.FormatRemaining(m.displayRemaining()), m.phaseColor())))
	parts = append(parts, center.Render(m.progress.ViewAs(m.elapsedFraction())))
	parts = append(parts, center.Render(m.renderTask(pal)))

	if m.banner != "" {
		parts = append(parts, center.Render(Gradient(m.banner, ColorAccentMain, ColorWarning)))
	}
	if m.notice != "" {
		parts = append(parts, center.Render(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render(m.notice)))
	}

	body := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(parts, "\n\n"))

	helpBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Width(m.width).
		Align(lipgloss.Center).
		Render(m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, body, helpBar)
}

func (m PomodoroModel) renderHeader(pal palette) string {
	label := "READY"
	switch m.status.State {
	case pomodoro.RunningFocus:
		label = "🍅  FOCUS"
	case pomodoro.RunningBreak:
		label = "☕  BREAK"
	case pomodoro.Paused:
		label = "⏸  PAUSED · " + strings.ToUpper(m.status.Phase.String())
	}
	minutes := fmt.Sprintf("%d/%d min", m.settings.FocusMinutes, m.settings.BreakMinutes)

	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.phaseColor())).Bold(true).Render(label) +
		lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted)).Render("   "+minutes)
}

func (m PomodoroModel) renderTask(pal palette) string {
	if m.task == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Italic(true).
			Render("No task attached · press t to pick one")
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(pal.Text)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(pal.Accent)).
		Padding(0, 1).
		Render(m.task.Title)
	meta := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted)).
		Render(fmt.Sprintf("%s · 🍅 %d", m.task.Subject, m.task.PomodorosCompleted))
	return lipgloss.JoinVertical(lipgloss.Center, title, meta)
}

func (m PomodoroModel) phaseColor() string {
	switch {
	case m.status.State == pomodoro.Paused:
		return ColorWarning
	case m.status.Phase == pomodoro.Break:
		return ColorBreak
	default:
		return ColorAccentBright
	}
}

func (m PomodoroModel) displayRemaining() time.Duration {
	if m.status.Remaining <= 0 {
		return m.status.Total
	}
	return m.status.Remaining
}

// elapsedFraction is how much of the current phase has passed, 0 when Ready
func (m PomodoroModel) elapsedFraction() float64 {
	if m.status.State == pomodoro.Ready || m.status.Total <= 0 {
		return 0
	}
	f := 1 - float64(m.displayRemaining())/float64(m.status.Total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

var clockDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// bigClock renders text such as "25:00" in five-row block digits
func bigClock(text, color string) string {
	var rows [5]strings.Builder
	for _, r := range text {
		art, ok := clockDigits[r]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i].WriteString(art[i])
			rows[i].WriteString(" ")
		}
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = style.Render(strings.TrimSuffix(rows[i].String(), " "))
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
