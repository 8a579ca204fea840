package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenLogin screen = iota
	screenAccounts
	screenTransfer
)

// Model is the application shell. Exactly one screen is focused at a time;
// focus acquires a bus subscription and triggers a refresh, blur releases it.
type Model struct {
	deps   Deps
	styles styles
	screen screen

	login    loginModel
	accounts accountsModel
	transfer transferModel
}

func newModel(deps Deps, loggedIn bool) Model {
	s := newStyles()
	m := Model{
		deps:     deps,
		styles:   s,
		screen:   screenLogin,
		login:    newLoginModel(deps, s),
		accounts: newAccountsModel(deps, s),
		transfer: newTransferModel(deps, s),
	}
	if loggedIn {
		m.screen = screenAccounts
	}

	return m
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenAccounts {
		// Init cannot mutate the model; the first update performs the focus.
		return func() tea.Msg { return initialFocusMsg{} }
	}

	return textinput.Blink
}

type initialFocusMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initialFocusMsg:
		var cmd tea.Cmd
		m.accounts, cmd = m.accounts.focus()
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()
		case "q":
			if m.screen == screenAccounts {
				return m.quit()
			}
		case "tab":
			if m.screen == screenAccounts {
				m.accounts = m.accounts.blur()
				m.screen = screenTransfer
				var cmd tea.Cmd
				m.transfer, cmd = m.transfer.focus()
				return m, cmd
			}
			if m.screen == screenTransfer {
				m.transfer = m.transfer.blur()
				m.screen = screenAccounts
				var cmd tea.Cmd
				m.accounts, cmd = m.accounts.focus()
				return m, cmd
			}
		}
		return m.routeKey(msg)

	case loginDoneMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg)
		if msg.err == nil {
			m.screen = screenAccounts
			var focusCmd tea.Cmd
			m.accounts, focusCmd = m.accounts.focus()
			return m, tea.Batch(cmd, focusCmd)
		}
		return m, cmd
	}

	// Load results, bus signals, and ticks fan out to every screen; stale
	// results are dropped by the seq guards.
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.login, cmd = m.login.update(msg)
	cmds = append(cmds, cmd)
	m.accounts, cmd = m.accounts.update(msg)
	cmds = append(cmds, cmd)
	m.transfer, cmd = m.transfer.update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenLogin:
		m.login, cmd = m.login.update(msg)
	case screenAccounts:
		m.accounts, cmd = m.accounts.update(msg)
	case screenTransfer:
		m.transfer, cmd = m.transfer.update(msg)
	}

	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.accounts = m.accounts.blur()
	m.transfer = m.transfer.blur()
	return m, tea.Quit
}

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenLogin:
		body = m.login.view()
	case screenAccounts:
		body = m.accounts.view()
	case screenTransfer:
		body = m.transfer.view()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render("Pocket Bank"),
		m.styles.section.Render(body),
	)
}

// Run starts the interactive program. loggedIn selects the first screen.
func Run(deps Deps, loggedIn bool) error {
	p := tea.NewProgram(newModel(deps, loggedIn), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
