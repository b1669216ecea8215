package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/treestrut/pkg/observability"
)

// The TUI shows a live progress bar for support generation, fed by the
// observability hooks. It is attached by the generate command when the
// --watch flag is set; otherwise the spinner is used.

const progressBarWidth = 40

type progressMsg struct {
	done, total float64
}

type stageMsg string

type finishedMsg struct{}

// progressModel renders one progress bar plus the current stage name.
type progressModel struct {
	stage   string
	percent float64
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		if msg.total > 0 {
			m.percent = msg.done / msg.total
		}
		return m, nil
	case stageMsg:
		m.stage = string(msg)
		return m, nil
	case finishedMsg:
		m.percent = 1
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	filled := int(m.percent * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
	stage := m.stage
	if stage == "" {
		stage = "starting"
	}
	return fmt.Sprintf("%s %3.0f%% %s\n",
		StyleHighlight.Render(bar), m.percent*100, StyleDim.Render(stage))
}

// teaHooks forwards pipeline events into a running bubbletea program.
type teaHooks struct {
	program *tea.Program
}

func (h teaHooks) OnStageStart(_ context.Context, stage string) {
	h.program.Send(stageMsg(stage))
}

func (h teaHooks) OnStageComplete(context.Context, string, time.Duration) {}

func (h teaHooks) OnProgress(_ context.Context, done, total float64) {
	h.program.Send(progressMsg{done: done, total: total})
}

// runWithProgressUI runs fn while a progress bar renders, wiring the
// observability hooks to the program for the duration of the call.
func runWithProgressUI(fn func() error) error {
	program := tea.NewProgram(progressModel{})

	observability.SetSupportHooks(teaHooks{program: program})
	defer observability.Reset()

	errc := make(chan error, 1)
	go func() {
		errc <- fn()
		program.Send(finishedMsg{})
	}()

	if _, err := program.Run(); err != nil {
		return err
	}
	return <-errc
}
