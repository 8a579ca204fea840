package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	total      lipgloss.Style
	card       lipgloss.Style
	activeCard lipgloss.Style
	cursor     lipgloss.Style
	balance    lipgloss.Style
	label      lipgloss.Style
	alert      lipgloss.Style
	errText    lipgloss.Style
	empty      lipgloss.Style
	help       lipgloss.Style
	section    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		total:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		card:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		activeCard: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
		cursor:     lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		balance:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		label:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		alert:      lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		errText:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		empty:      lipgloss.NewStyle().Faint(true),
		help:       lipgloss.NewStyle().Faint(true),
		section:    lipgloss.NewStyle().MarginTop(1),
	}
}
