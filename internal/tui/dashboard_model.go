package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/parser"
	"github.com/balkashynov/ssp/internal/planner"
)

// celebrateFrames keeps the celebration banner up for about three seconds
const celebrateFrames = 30

type dashboardKeys struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Inc       key.Binding
	Dec       key.Binding
	ResetPomo key.Binding
	Session   key.Binding
	Add       key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Add, k.Delete, k.Help, k.Quit}
}

func (k dashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.Add, k.Delete},
		{k.Inc, k.Dec, k.ResetPomo},
		{k.Session, k.Help, k.Quit},
	}
}

var defaultDashboardKeys = dashboardKeys{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:    key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d", "done")),
	Delete:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
	Inc:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "pomodoro +1")),
	Dec:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "pomodoro -1")),
	ResetPomo: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset pomodoros")),
	Session:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop session")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "quick add")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// shimmerTickMsg advances the dashboard animations
type shimmerTickMsg struct{}

// DashboardModel is the interactive overview of tasks, today and the week.
// It never reads the planner on its own schedule: every refresh arrives as a
// viewMsg from the planner hooks.
type DashboardModel struct {
	planner *planner.Planner
	keys    dashboardKeys
	help    help.Model
	input   textinput.Model
	adding  bool

	view     planner.View
	seq      uint64
	selected int
	offset   int

	shimmer      *Shimmer
	celebrating  string
	celebrateTTL int
	notice       string
	noticeErr    bool

	width  int
	height int
}

// NewDashboardModel builds the dashboard with p's current view
func NewDashboardModel(p *planner.Planner) DashboardModel {
	input := textinput.New()
	input.Placeholder = "Read chapter 4 @math +high due:tomorrow"
	input.Prompt = "➕ "
	input.CharLimit = 200

	return DashboardModel{
		planner: p,
		keys:    defaultDashboardKeys,
		help:    help.New(),
		input:   input,
		view:    p.View(),
		shimmer: NewShimmer(ColorSecondaryText, "#EAE6FF"),
	}
}

func tickShimmer() tea.Cmd {
	return tea.Tick(ShimmerInterval, func(time.Time) tea.Msg {
		return shimmerTickMsg{}
	})
}

// Init starts the animation loop
func (m DashboardModel) Init() tea.Cmd {
	return tickShimmer()
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.shimmer.Advance()
		if m.celebrateTTL > 0 {
			m.celebrateTTL--
			if m.celebrateTTL == 0 {
				m.celebrating = ""
			}
		}
		return m, tickShimmer()

	case viewMsg:
		if msg.seq < m.seq {
			return m, nil
		}
		m.seq = msg.seq
		m.view = msg.view
		m.clampSelection()
		return m, nil

	case celebrateMsg:
		m.celebrating = msg.task.Title
		m.celebrateTTL = celebrateFrames
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = clamp(msg.Width-10, 20, 80)
		m.clampSelection()
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m DashboardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	task, hasTask := m.selectedTask()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.shimmer.Reset()
		}
		m.clampSelection()
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.view.Tasks)-1 {
			m.selected++
			m.shimmer.Reset()
		}
		m.clampSelection()
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Session):
		m.toggleSession(task, hasTask)
	case !hasTask:
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		_, err := m.planner.ToggleDone(task.ID)
		m.report(err, "")
	case key.Matches(msg, m.keys.Delete):
		_, err := m.planner.RemoveTask(task.ID)
		m.report(err, fmt.Sprintf("🗑️  Deleted \"%s\"", task.Title))
	case key.Matches(msg, m.keys.Inc):
		_, err := m.planner.IncrementPomodoro(task.ID)
		m.report(err, "")
	case key.Matches(msg, m.keys.Dec):
		_, err := m.planner.DecrementPomodoro(task.ID)
		m.report(err, "")
	case key.Matches(msg, m.keys.ResetPomo):
		_, err := m.planner.ResetPomodoro(task.ID)
		m.report(err, "")
	}
	return m, nil
}

func (m *DashboardModel) toggleSession(task models.Task, hasTask bool) {
	if m.view.Active != nil {
		sess, err := m.planner.StopSession()
		m.report(err, fmt.Sprintf("⏹️  Session stopped after %d min", sess.Duration))
		return
	}
	if !hasTask {
		m.report(nil, "Select a task to start a session")
		return
	}
	_, err := m.planner.StartSession(task.ID)
	m.report(err, fmt.Sprintf("⏱️  Session started for \"%s\"", task.Title))
}

func (m DashboardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.adding = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.submitQuickAdd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitQuickAdd parses the input line and adds the task. On any problem
// the input stays open so the line can be fixed.
func (m *DashboardModel) submitQuickAdd() {
	parsed := parser.ParseQuickAdd(m.input.Value(), m.planner.Now())
	if parsed.HasErrors() {
		m.report(errors.New(strings.Join(parsed.Errors, "; ")), "")
		return
	}
	if parsed.Subject == "" {
		m.report(errors.New("add a subject with @subject"), "")
		return
	}

	task, err := m.planner.AddTask(planner.TaskInput{
		Subject:  parsed.Subject,
		Title:    parsed.Title,
		Deadline: parsed.Deadline,
		Priority: parsed.Priority,
	})
	if err != nil {
		m.report(err, "")
		return
	}

	m.report(nil, fmt.Sprintf("✅ Added \"%s\"", task.Title))
	m.adding = false
	m.input.Blur()
	m.input.Reset()
	m.selected = 0
	m.offset = 0
}

func (m *DashboardModel) report(err error, ok string) {
	if err != nil {
		m.notice = "❌ " + err.Error()
		m.noticeErr = true
		return
	}
	m.notice = ok
	m.noticeErr = false
}

func (m DashboardModel) selectedTask() (models.Task, bool) {
	if m.selected < 0 || m.selected >= len(m.view.Tasks) {
		return models.Task{}, false
	}
	return m.view.Tasks[m.selected], true
}

// rowsVisible is how many table rows fit beside the side panel
func (m DashboardModel) rowsVisible() int {
	rows := m.height - 12
	if rows < 3 {
		return 3
	}
	return rows
}

func (m *DashboardModel) clampSelection() {
	if m.selected >= len(m.view.Tasks) {
		m.selected = len(m.view.Tasks) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	rows := m.rowsVisible()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	pal := paletteFor(m.view.Settings.Theme)

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskTable(leftWidth, pal),
		" ",
		m.renderSidePanel(rightWidth, pal),
	)

	var footer []string
	if m.celebrating != "" {
		footer = append(footer, m.shimmerBanner())
	}
	if m.notice != "" {
		color := ColorSuccess
		if m.noticeErr {
			color = ColorError
		}
		footer = append(footer, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(m.notice))
	}
	if m.adding {
		footer = append(footer, m.input.View())
		footer = append(footer, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
			Render("enter add · esc cancel · @subject +priority due:date"))
	} else {
		footer = append(footer, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Render(m.help.View(m.keys)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(pal),
		content,
		"",
		strings.Join(footer, "\n"),
	)
}

func (m DashboardModel) shimmerBanner() string {
	return m.shimmer.Render(fmt.Sprintf("🎉 Nice work! \"%s\" is done 🎉", m.celebrating))
}

func (m DashboardModel) renderHeader(pal palette) string {
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Accent)).Bold(true).Render("SSP")
	today := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted)).Render("  " + m.view.Today)

	session := ""
	if m.view.Active != nil {
		label := "⏱  tracking"
		if m.view.Active.TaskID != nil {
			if t, ok := findTask(m.view.Tasks, *m.view.Active.TaskID); ok {
				label += " " + t.Title
			}
		}
		label += " since " + m.view.Active.Start.Format("15:04")
		session = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render("  " + label)
	}
	return title + today + session
}

func (m DashboardModel) renderTaskTable(width int, pal palette) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.Bright)).Render("📋 Tasks"))
	b.WriteString("\n\n")

	if len(m.view.Tasks) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted)).Italic(true).
			Render("No tasks yet · press a to add one"))
		return m.box(width, pal).Render(b.String())
	}

	subjectWidth := 12
	dueWidth := 9
	titleWidth := width - subjectWidth - dueWidth - 16
	if titleWidth < 12 {
		titleWidth = 12
	}

	header := fmt.Sprintf("  %-2s %-*s %-*s %-*s %s", "", titleWidth, "TITLE", subjectWidth, "SUBJECT", dueWidth, "DUE", "🍅")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.Bright)).Render(header))
	b.WriteString("\n")

	end := m.offset + m.rowsVisible()
	if end > len(m.view.Tasks) {
		end = len(m.view.Tasks)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.view.Tasks[i], i == m.selected, titleWidth, subjectWidth, dueWidth, pal))
		b.WriteString("\n")
	}

	if len(m.view.Tasks) > m.rowsVisible() {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
			Render(fmt.Sprintf("%d-%d of %d", m.offset+1, end, len(m.view.Tasks))))
	}
	return m.box(width, pal).Render(strings.TrimRight(b.String(), "\n"))
}

func (m DashboardModel) renderRow(t models.Task, selected bool, titleWidth, subjectWidth, dueWidth int, pal palette) string {
	status := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted)).Render("○")
	if t.Done {
		status = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("✓")
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(priorityColor(t.Priority))).Render("●")

	title := padRight(truncateRunes(t.Title, titleWidth), titleWidth)
	switch {
	case selected:
		title = m.shimmer.Render(title)
	case t.Done:
		title = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Strikethrough(true).Render(title)
	default:
		title = lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Text)).Render(title)
	}

	subject := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted)).
		Render(padRight(truncateRunes(t.Subject, subjectWidth), subjectWidth))
	label, color := dueLabel(t.Deadline, m.view.Today)
	due := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(padRight(label, dueWidth))

	row := fmt.Sprintf("%s %s %s %s %s %d", status, dot, title, subject, due, t.PomodorosCompleted)
	if selected {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Accent)).Render("▌") + " " + row
	}
	return "  " + row
}

func (m DashboardModel) renderSidePanel(width int, pal palette) string {
	sections := []string{
		m.renderDetails(width, pal),
		m.renderToday(pal),
		m.renderStats(pal),
		renderWeekBars(m.view.Weekly, clamp(width-20, 5, 20), pal),
	}
	return m.box(width, pal).Render(strings.Join(sections, "\n\n"))
}

func (m DashboardModel) renderDetails(width int, pal palette) string {
	task, ok := m.selectedTask()
	if !ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Accent)).Bold(true).Render(Logo)
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Text))

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.Text)).Width(width - 4).Render(task.Title),
		label.Render("📚 Subject: ") + value.Render(task.Subject),
		label.Render("🎯 Priority: ") + lipgloss.NewStyle().Foreground(lipgloss.Color(priorityColor(task.Priority))).Render(string(task.Priority)),
	}
	if task.Deadline != "" {
		lines = append(lines, label.Render("📅 ")+value.Render(parser.FormatDeadline(task.Deadline, m.planner.Now())))
	}
	lines = append(lines, label.Render("🍅 Pomodoros: ")+value.Render(fmt.Sprintf("%d", task.PomodorosCompleted)))
	if task.Notes != "" {
		lines = append(lines, label.Render("📝 ")+value.Width(width-8).Render(task.Notes))
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderToday(pal palette) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.Bright)).Render("🔥 Today"))
	if len(m.view.TodayTasks) == 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted)).Italic(true).Render("Nothing due today"))
		return b.String()
	}
	for _, t := range m.view.TodayTasks {
		mark := "○"
		if t.Done {
			mark = "✓"
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Text)).Render(fmt.Sprintf("%s %s", mark, t.Label())))
	}
	return b.String()
}

func (m DashboardModel) renderStats(pal palette) string {
	done := 0
	for _, t := range m.view.Tasks {
		if t.Done {
			done++
		}
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted)).Render(
		fmt.Sprintf("📊 %d tasks · %d done · 🍅 %d", m.view.Stats.TotalTasks, done, m.view.Stats.TotalPomodoros))
}

func (m DashboardModel) box(width int, pal palette) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(pal.Border)).
		Padding(0, 1).
		Width(width - 2)
}

// renderWeekBars is the compact weekly chart of the side panel
func renderWeekBars(days []planner.DayMinutes, width int, pal palette) string {
	maxMinutes := 0
	for _, d := range days {
		if d.Minutes > maxMinutes {
			maxMinutes = d.Minutes
		}
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.Bright)).Render("📈 This week")}
	for _, d := range days {
		filled := 0
		if maxMinutes > 0 {
			filled = d.Minutes * width / maxMinutes
		}
		if d.Minutes > 0 && filled == 0 {
			filled = 1
		}
		day := d.Date
		if t, err := time.Parse(models.DateLayout, d.Date); err == nil {
			day = t.Format("Mon")
		}
		lines = append(lines, fmt.Sprintf("%s %s%s %dm",
			day,
			lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Bright)).Render(strings.Repeat("█", filled)),
			lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Border)).Render(strings.Repeat("░", width-filled)),
			d.Minutes))
	}
	return strings.Join(lines, "\n")
}

// dueLabel is the short deadline column text and its color
func dueLabel(deadline, today string) (string, string) {
	if deadline == "" {
		return "-", ColorDisabledText
	}
	due, err := time.Parse(models.DateLayout, deadline)
	if err != nil {
		return deadline, ColorDisabledText
	}
	now, err := time.Parse(models.DateLayout, today)
	if err != nil {
		return deadline, ColorDisabledText
	}

	days := int(due.Sub(now).Hours() / 24)
	switch {
	case days < 0:
		return "OVERDUE", ColorError
	case days == 0:
		return "TODAY", ColorWarning
	case days == 1:
		return "TOMORROW", ColorWarning
	case days <= 7:
		return fmt.Sprintf("%dd", days), ColorAccentBright
	default:
		return due.Format("02/01"), ColorSecondaryText
	}
}

func findTask(tasks []models.Task, id string) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
