package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginDoneMsg struct {
	err error
}

type loginModel struct {
	deps   Deps
	styles styles

	bankNumber textinput.Model
	password   textinput.Model
	fieldIdx   int

	submitting bool
	alert      string
}

func newLoginModel(deps Deps, s styles) loginModel {
	bankNumber := textinput.New()
	bankNumber.Placeholder = "Bank Number"
	bankNumber.CharLimit = 32
	bankNumber.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 64

	return loginModel{
		deps:       deps,
		styles:     s,
		bankNumber: bankNumber,
		password:   password,
	}
}

func (m loginModel) loginCmd(bankNumber, password string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx := context.Background()

		session, cards, err := deps.Bank.Login(ctx, bankNumber, password)
		if err != nil {
			return loginDoneMsg{err: err}
		}

		if err := deps.Sessions.Save(ctx, session, cards); err != nil {
			return loginDoneMsg{err: err}
		}

		return loginDoneMsg{}
	}
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.alert = "Login failed: invalid credentials, please try again."
			m.password.SetValue("")
			return m, nil
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			if m.fieldIdx == 0 {
				return m.setField(1), nil
			}
			return m.submit()
		case "up":
			return m.setField(0), nil
		case "down", "tab":
			return m.setField(1), nil
		}

		var cmd tea.Cmd
		if m.fieldIdx == 0 {
			m.bankNumber, cmd = m.bankNumber.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m loginModel) setField(idx int) loginModel {
	m.fieldIdx = idx
	if idx == 0 {
		m.bankNumber.Focus()
		m.password.Blur()
	} else {
		m.password.Focus()
		m.bankNumber.Blur()
	}

	return m
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	bankNumber := strings.TrimSpace(m.bankNumber.Value())
	password := m.password.Value()
	if bankNumber == "" || password == "" {
		m.alert = "Please enter both bank number and password."
		return m, nil
	}

	m.alert = ""
	m.submitting = true
	return m, m.loginCmd(bankNumber, password)
}

func (m loginModel) view() string {
	lines := []string{
		m.styles.title.Render("Login to Your Bank Account"),
		m.bankNumber.View(),
		m.password.View(),
	}

	if m.submitting {
		lines = append(lines, m.styles.empty.Render("Signing in..."))
	}
	if m.alert != "" {
		lines = append(lines, m.styles.errText.Render(m.alert))
	}

	lines = append(lines, m.styles.help.Render("enter next/submit · ctrl+c quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
