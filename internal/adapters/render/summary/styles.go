package summary

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	game    lipgloss.Style
	success lipgloss.Style
	skipped lipgloss.Style
	failure lipgloss.Style
	detail  lipgloss.Style
	meta    lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		game:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		skipped: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		meta:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
	}
}
