package tui

import (
	"fmt"
	"io"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/planner"
	"github.com/balkashynov/ssp/internal/pomodoro"
)

// viewMsg carries a fresh planner view. Hooks are delivered from their own
// goroutines, so seq lets a model drop a view older than one it already has.
type viewMsg struct {
	seq  uint64
	view planner.View
}

// phaseMsg is sent when a pomodoro phase runs out
type phaseMsg struct {
	event pomodoro.PhaseEvent
	view  planner.View
}

// celebrateMsg is sent when a task becomes done
type celebrateMsg struct {
	task models.Task
}

// bridge forwards planner hooks into a running program
type bridge struct {
	prog *tea.Program
	seq  atomic.Uint64
}

// send must not block: hooks can fire from inside the program's own Update,
// and Program.Send waits for the event loop.
func (b *bridge) send(msg tea.Msg) {
	go b.prog.Send(msg)
}

func (b *bridge) hooks() planner.Hooks {
	onView := func(v planner.View) {
		b.send(viewMsg{seq: b.seq.Add(1), view: v})
	}
	return planner.Hooks{
		TasksChanged:    onView,
		SessionsChanged: onView,
		PhaseComplete: func(ev pomodoro.PhaseEvent, v planner.View) {
			b.send(phaseMsg{event: ev, view: v})
		},
		Celebrate: func(t models.Task) {
			b.send(celebrateMsg{task: t})
		},
	}
}

// RunDashboardTUI starts the interactive dashboard
func RunDashboardTUI(p *planner.Planner) error {
	prog := tea.NewProgram(NewDashboardModel(p), tea.WithAltScreen())
	p.Observe((&bridge{prog: prog}).hooks())

	_, err := prog.Run()
	return err
}

// RunPomodoroTUI starts the full-screen pomodoro timer and prints a short
// summary to w once it closes
func RunPomodoroTUI(p *planner.Planner, w io.Writer) error {
	prog := tea.NewProgram(NewPomodoroModel(p), tea.WithAltScreen())
	p.Observe((&bridge{prog: prog}).hooks())

	final, err := prog.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(PomodoroModel); ok {
		fmt.Fprintf(w, "⏹️  Pomodoro closed at %s (%s)\n", p.Engine().Display(), p.Engine().Status().State)
		if m.completed > 0 {
			fmt.Fprintf(w, "🍅 %d focus interval(s) completed\n", m.completed)
		}
	}
	return nil
}
