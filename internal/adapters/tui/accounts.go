package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pocketbank/pocketbank-cli/internal/application"
	"github.com/pocketbank/pocketbank-cli/internal/domain"
	"github.com/pocketbank/pocketbank-cli/internal/events"
)

type overviewLoadedMsg struct {
	seq      int
	overview application.Overview
	err      error
}

type accountSelectedMsg struct {
	name string
	err  error
}

type accountsBusMsg struct{}

// accountsModel is the account-list screen. It holds a bus subscription only
// while focused; results arriving after blur are dropped by the seq guard.
type accountsModel struct {
	deps   Deps
	styles styles
	spin   spinner.Model

	focused bool
	loading bool
	seq     int

	overview application.Overview
	cursor   int
	alert    string
	errText  string

	signals chan struct{}
	sub     *events.Subscription
}

func newAccountsModel(deps Deps, s styles) accountsModel {
	return accountsModel{
		deps:   deps,
		styles: s,
		spin:   newDotSpinner(),
	}
}

func (m accountsModel) focus() (accountsModel, tea.Cmd) {
	m.focused = true
	m.loading = true
	m.alert = ""
	m.errText = ""
	m.seq++

	m.signals = make(chan struct{}, 1)
	signals := m.signals
	m.sub = m.deps.Bus.Subscribe(events.ActiveAccountChanged, func() {
		select {
		case signals <- struct{}{}:
		default:
		}
	})

	return m, tea.Batch(m.loadCmd(m.seq), listenForSignal(m.signals, func() tea.Msg { return accountsBusMsg{} }), m.spin.Tick)
}

func (m accountsModel) blur() accountsModel {
	m.focused = false
	if m.sub != nil {
		m.sub.Close()
		m.sub = nil
	}
	if m.signals != nil {
		close(m.signals)
		m.signals = nil
	}
	// In-flight refreshes must not render into a blurred screen.
	m.seq++

	return m
}

func (m accountsModel) loadCmd(seq int) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx := context.Background()
		session, err := deps.Sessions.Load(ctx)
		if err != nil {
			return overviewLoadedMsg{seq: seq, err: err}
		}

		overview, err := deps.Active.LoadOverview(ctx, session)
		return overviewLoadedMsg{seq: seq, overview: overview, err: err}
	}
}

func (m accountsModel) selectCmd(account domain.Account) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		err := deps.Active.SetActiveAccount(context.Background(), account)
		return accountSelectedMsg{name: account.AccountName, err: err}
	}
}

func (m accountsModel) update(msg tea.Msg) (accountsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case accountsBusMsg:
		if !m.focused {
			return m, nil
		}
		m.seq++
		m.loading = true
		return m, tea.Batch(m.loadCmd(m.seq), listenForSignal(m.signals, func() tea.Msg { return accountsBusMsg{} }))

	case overviewLoadedMsg:
		if msg.seq != m.seq || !m.focused {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.deps.logger().WithError(msg.err).Warn("account overview refresh failed")
			m.errText = refreshErrorText(msg.err)
			return m, nil
		}
		m.errText = ""
		m.overview = msg.overview
		if m.cursor >= len(m.overview.Accounts) {
			m.cursor = 0
		}
		return m, nil

	case accountSelectedMsg:
		if msg.err != nil {
			m.alert = "Could not set the active account: " + msg.err.Error()
			return m, nil
		}
		m.alert = fmt.Sprintf("%s has been set as the active account!", msg.name)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m accountsModel) updateKeys(msg tea.KeyMsg) (accountsModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.overview.Accounts)-1 {
			m.cursor++
		}
	case "enter":
		if m.loading || len(m.overview.Accounts) == 0 {
			return m, nil
		}
		return m, m.selectCmd(m.overview.Accounts[m.cursor])
	}

	return m, nil
}

func (m accountsModel) view() string {
	lines := []string{m.styles.title.Render("Your Cards")}

	if m.loading {
		lines = append(lines, fmt.Sprintf("%s Loading accounts...", m.spin.View()))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if m.errText != "" {
		lines = append(lines, m.styles.errText.Render(m.errText))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, m.styles.total.Render("Total Balance: $"+m.overview.TotalBalance.StringFixed(2)))
	lines = append(lines, renderCardLines(m.overview, m.cursor, m.styles)...)

	if m.alert != "" {
		lines = append(lines, m.styles.section.Render(m.styles.alert.Render(m.alert)))
	}

	lines = append(lines, m.styles.help.Render("↑/↓ move · enter set active · tab transfer · q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCardLines(overview application.Overview, cursor int, s styles) []string {
	if len(overview.Accounts) == 0 {
		return []string{s.empty.Render("No bank accounts found.")}
	}

	lines := make([]string, 0, len(overview.Accounts))
	for i, account := range overview.Accounts {
		marker := "  "
		if i == cursor {
			marker = s.cursor.Render("> ")
		}

		name := s.card.Render(account.AccountName)
		suffix := ""
		if overview.Active != nil && overview.Active.ID == account.ID {
			name = s.activeCard.Render(account.AccountName)
			suffix = s.activeCard.Render(" (active)")
		}

		balance := s.balance.Render("Balance: $" + account.Balance.StringFixed(2))
		lines = append(lines, fmt.Sprintf("%s%s%s  %s", marker, name, suffix, balance))
	}

	return lines
}

func refreshErrorText(err error) string {
	return "Failed to load bank accounts: " + err.Error()
}

// listenForSignal bridges a bus subscription into the message loop. A closed
// channel ends the bridge without emitting anything.
func listenForSignal(signals chan struct{}, msg func() tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-signals; !ok {
			return nil
		}

		return msg()
	}
}
