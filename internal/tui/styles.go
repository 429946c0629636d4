// Package tui is the terminal front end for the personality deck.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorKeep   = lipgloss.Color("#8BC34A")
	colorPass   = lipgloss.Color("#e53935")
	colorAccent = lipgloss.Color("#2196F3")
	colorMuted  = lipgloss.Color("#6b7280")
	colorWarn   = lipgloss.Color("#FFC107")
	colorBorder = lipgloss.Color("#3b4252")
)

type styles struct {
	Title      lipgloss.Style
	Muted      lipgloss.Style
	Card       lipgloss.Style
	CardKeep   lipgloss.Style
	CardPass   lipgloss.Style
	Peek       lipgloss.Style
	Name       lipgloss.Style
	Field      lipgloss.Style
	Avatar     lipgloss.Style
	Flash      lipgloss.Style
	Error      lipgloss.Style
	Warn       lipgloss.Style
	Modal      lipgloss.Style
	Selected   lipgloss.Style
	StatusLine lipgloss.Style
}

func defaultStyles() styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2).
		Width(56)

	return styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Muted:      lipgloss.NewStyle().Foreground(colorMuted),
		Card:       card,
		CardKeep:   card.BorderForeground(colorKeep).MarginLeft(4),
		CardPass:   card.BorderForeground(colorPass).MarginRight(4),
		Peek:       lipgloss.NewStyle().Foreground(colorMuted).Italic(true).PaddingLeft(2),
		Name:       lipgloss.NewStyle().Bold(true),
		Field:      lipgloss.NewStyle().Foreground(colorAccent),
		Avatar:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(colorAccent).Padding(0, 1),
		Flash:      lipgloss.NewStyle().Bold(true).Foreground(colorKeep),
		Error:      lipgloss.NewStyle().Foreground(colorPass),
		Warn:       lipgloss.NewStyle().Bold(true).Foreground(colorWarn),
		Modal:      lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(colorAccent).Padding(1, 2).Width(64),
		Selected:   lipgloss.NewStyle().Bold(true).Foreground(colorKeep),
		StatusLine: lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
	}
}
