package session

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	client  lipgloss.Style
	active  lipgloss.Style
	marker  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	detail  lipgloss.Style
	empty   lipgloss.Style
	on      lipgloss.Style
	off     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		client:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		active:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		marker:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("#01F9C6")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CD6D6D")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		empty:   lipgloss.NewStyle().Faint(true),
		on:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CD6D6D")),
		off:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#01F9C6")),
	}
}
