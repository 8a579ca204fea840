package tui

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pocketbank/pocketbank-cli/internal/application"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type renderModel struct {
	overview application.Overview
	styles   styles
	output   string
}

func (m renderModel) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m renderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderOverviewView(m.overview, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m renderModel) View() string {
	return m.output
}

func renderOverviewView(overview application.Overview, s styles) string {
	lines := []string{
		s.title.Render("Total Balance: $" + overview.TotalBalance.StringFixed(2)),
	}
	lines = append(lines, renderCardLines(overview, -1, s)...)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderOverview produces the one-shot listing for `pocket accounts`.
func RenderOverview(overview application.Overview) (string, error) {
	p := tea.NewProgram(
		renderModel{overview: overview, styles: newStyles()},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(renderModel)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
