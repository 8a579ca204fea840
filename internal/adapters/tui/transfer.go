package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank-cli/internal/domain"
	"github.com/pocketbank/pocketbank-cli/internal/events"
)

type snapshotLoadedMsg struct {
	seq      int
	snapshot *domain.Account
}

type transferDoneMsg struct {
	seq     int
	updated *domain.Account
	err     error
}

type transferBusMsg struct{}

const (
	fieldRecipient = iota
	fieldAmount
)

// transferModel is the transfer screen. After a transfer it re-renders from
// the server-confirmed account, not the typed amount.
type transferModel struct {
	deps   Deps
	styles styles
	spin   spinner.Model

	recipient textinput.Model
	amount    textinput.Model
	fieldIdx  int

	focused    bool
	submitting bool
	seq        int

	snapshot *domain.Account
	alert    string

	signals chan struct{}
	sub     *events.Subscription
}

func newTransferModel(deps Deps, s styles) transferModel {
	recipient := textinput.New()
	recipient.Placeholder = "Recipient Bank Number"
	recipient.CharLimit = 32

	amount := textinput.New()
	amount.Placeholder = "Amount to Transfer"
	amount.CharLimit = 16

	return transferModel{
		deps:      deps,
		styles:    s,
		recipient: recipient,
		amount:    amount,
		spin:      newDotSpinner(),
	}
}

func (m transferModel) focus() (transferModel, tea.Cmd) {
	m.focused = true
	m.alert = ""
	m.seq++
	m.fieldIdx = fieldRecipient
	m.recipient.Focus()
	m.amount.Blur()

	m.signals = make(chan struct{}, 1)
	signals := m.signals
	m.sub = m.deps.Bus.Subscribe(events.ActiveAccountChanged, func() {
		select {
		case signals <- struct{}{}:
		default:
		}
	})

	return m, tea.Batch(m.readSnapshotCmd(m.seq), listenForSignal(m.signals, func() tea.Msg { return transferBusMsg{} }), textinput.Blink)
}

func (m transferModel) blur() transferModel {
	m.focused = false
	if m.sub != nil {
		m.sub.Close()
		m.sub = nil
	}
	if m.signals != nil {
		close(m.signals)
		m.signals = nil
	}
	m.seq++
	m.recipient.Blur()
	m.amount.Blur()

	return m
}

func (m transferModel) readSnapshotCmd(seq int) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		snapshot, err := deps.Active.ReadSnapshot(context.Background())
		if err != nil {
			// Store trouble reads as "no active account".
			deps.logger().WithError(err).Warn("read active account snapshot failed")
			snapshot = nil
		}

		return snapshotLoadedMsg{seq: seq, snapshot: snapshot}
	}
}

func (m transferModel) transferCmd(seq int, senderID domain.AccountID, recipient string, amount decimal.Decimal) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx := context.Background()

		session, err := deps.Sessions.Load(ctx)
		if err != nil {
			return transferDoneMsg{seq: seq, err: err}
		}

		if err := deps.Bank.Transfer(ctx, session, senderID, recipient, amount); err != nil {
			return transferDoneMsg{seq: seq, err: err}
		}

		updated, err := deps.Active.RefreshAfterMutation(ctx, session, senderID)
		return transferDoneMsg{seq: seq, updated: updated, err: err}
	}
}

func (m transferModel) update(msg tea.Msg) (transferModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case transferBusMsg:
		if !m.focused {
			return m, nil
		}
		if m.submitting {
			// Own transfer in flight; the snapshot arrives in
			// transferDoneMsg. Rearm the listener only.
			return m, listenForSignal(m.signals, func() tea.Msg { return transferBusMsg{} })
		}
		m.seq++
		return m, tea.Batch(m.readSnapshotCmd(m.seq), listenForSignal(m.signals, func() tea.Msg { return transferBusMsg{} }))

	case snapshotLoadedMsg:
		if msg.seq != m.seq || !m.focused {
			return m, nil
		}
		m.snapshot = msg.snapshot
		return m, nil

	case transferDoneMsg:
		// Pending state always resolves; only the render is seq-gated.
		m.submitting = false
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.alert = "Transfer failed: " + msg.err.Error()
			return m, nil
		}
		m.snapshot = msg.updated
		m.recipient.SetValue("")
		m.amount.SetValue("")
		m.fieldIdx = fieldRecipient
		m.recipient.Focus()
		m.amount.Blur()
		m.alert = "Transfer completed successfully."
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m transferModel) updateKeys(msg tea.KeyMsg) (transferModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	switch msg.String() {
	case "enter":
		if m.fieldIdx == fieldRecipient {
			return m.setField(fieldAmount), nil
		}
		return m.submit()
	case "up":
		return m.setField(fieldRecipient), nil
	case "down":
		return m.setField(fieldAmount), nil
	}

	var cmd tea.Cmd
	if m.fieldIdx == fieldRecipient {
		m.recipient, cmd = m.recipient.Update(msg)
	} else {
		m.amount, cmd = m.amount.Update(msg)
	}

	return m, cmd
}

func (m transferModel) setField(idx int) transferModel {
	m.fieldIdx = idx
	if idx == fieldRecipient {
		m.recipient.Focus()
		m.amount.Blur()
	} else {
		m.amount.Focus()
		m.recipient.Blur()
	}

	return m
}

func (m transferModel) submit() (transferModel, tea.Cmd) {
	if m.snapshot == nil {
		m.alert = "No active account. Select one on the accounts screen first."
		return m, nil
	}

	recipient := strings.TrimSpace(m.recipient.Value())
	rawAmount := strings.TrimSpace(m.amount.Value())
	if recipient == "" || rawAmount == "" {
		m.alert = "Please enter both the amount and recipient bank number."
		return m, nil
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil || !amount.IsPositive() {
		m.alert = "Amount must be a positive number."
		return m, nil
	}

	m.alert = ""
	m.submitting = true
	return m, tea.Batch(m.transferCmd(m.seq, m.snapshot.ID, recipient, amount), m.spin.Tick)
}

func (m transferModel) view() string {
	lines := []string{m.styles.title.Render("Transfer Funds")}

	if m.snapshot != nil {
		lines = append(lines, m.styles.label.Render(fmt.Sprintf(
			"Active Account: %s (Balance: $%s)",
			m.snapshot.AccountName,
			m.snapshot.Balance.StringFixed(2),
		)))
	} else {
		lines = append(lines, m.styles.empty.Render("No active account selected"))
	}

	lines = append(lines,
		m.recipient.View(),
		m.amount.View(),
	)

	if m.submitting {
		lines = append(lines, fmt.Sprintf("%s Transferring...", m.spin.View()))
	}

	if m.alert != "" {
		style := m.styles.alert
		if strings.HasPrefix(m.alert, "Transfer failed") {
			style = m.styles.errText
		}
		lines = append(lines, m.styles.section.Render(style.Render(m.alert)))
	}

	lines = append(lines, m.styles.help.Render("enter next/submit · tab accounts · ctrl+c quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
