package views

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// HelpLine renders the short key hints of km as plain text no wider than
// width. Coloring is left to the frame encoder.
func HelpLine(km help.KeyMap, width int) string {
	h := help.New()
	h.Width = width
	plain := lipgloss.NewStyle()
	h.Styles = help.Styles{
		Ellipsis:       plain,
		ShortKey:       plain,
		ShortDesc:      plain,
		ShortSeparator: plain,
		FullKey:        plain,
		FullDesc:       plain,
		FullSeparator:  plain,
	}
	return h.ShortHelpView(km.ShortHelp())
}
