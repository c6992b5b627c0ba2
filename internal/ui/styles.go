package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks/internal/config"
)

type styles struct {
	title    lipgloss.Style
	counts   lipgloss.Style
	cursor   lipgloss.Style
	open     lipgloss.Style
	done     lipgloss.Style
	empty    lipgloss.Style
	hint     lipgloss.Style
	selected lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	accent := lipgloss.Color(theme.Accent)
	muted := lipgloss.Color(theme.Muted)
	done := lipgloss.Color(theme.Done)

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1),
		counts:   lipgloss.NewStyle().Foreground(muted),
		cursor:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		open:     lipgloss.NewStyle(),
		done:     lipgloss.NewStyle().Foreground(done).Strikethrough(true),
		empty:    lipgloss.NewStyle().Foreground(muted).Italic(true),
		hint:     lipgloss.NewStyle().Foreground(muted),
		selected: lipgloss.NewStyle().Bold(true),
	}
}
