package chat

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	reply     lipgloss.Style
	saved     lipgloss.Style
	failure   lipgloss.Style
	pending   lipgloss.Style
	help      lipgloss.Style
	turn      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		user:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")),
		reply:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		saved:     lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		failure:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		help:      lipgloss.NewStyle().Faint(true),
		turn:      lipgloss.NewStyle().MarginBottom(1),
	}
}
