package chatui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	muted     lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	body      lipgloss.Style
	typing    lipgloss.Style
	fail      lipgloss.Style
	rule      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		muted:     r.NewStyle().Foreground(lipgloss.Color("240")),
		user:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
		assistant: r.NewStyle().Bold(true).Foreground(lipgloss.Color("111")),
		body:      r.NewStyle().PaddingLeft(2),
		typing:    r.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		fail:      r.NewStyle().Foreground(lipgloss.Color("203")),
		rule:      r.NewStyle().Foreground(lipgloss.Color("237")),
	}
}
