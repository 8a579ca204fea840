package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newDotSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)
}

type spinnerDoneMsg struct {
	err error
}

type spinnerModel struct {
	spin  spinner.Model
	label string
	run   tea.Cmd
	err   error
	done  bool
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.run)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spin.View(), m.label)
}

// RunSpinner shows a spinner with the label on output while run executes.
func RunSpinner(ctx context.Context, output io.Writer, label string, run func(context.Context) error) error {
	p := tea.NewProgram(
		spinnerModel{
			spin:  newDotSpinner(),
			label: label,
			run:   func() tea.Msg { return spinnerDoneMsg{err: run(ctx)} },
		},
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(spinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
