package views

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colors holds the configurable colors of the finder (ANSI 256 codes or hex)
type Colors struct {
	Selected string
	Count    string
	Fill     string
	Prompt   string
	Status   string
	Error    string
	Help     string
}

// DefaultColors returns the default palette
func DefaultColors() Colors {
	return Colors{
		Selected: "2", // green
		Count:    "3", // yellow
		Fill:     "4", // blue
		Prompt:   "4",
		Status:   "2",
		Error:    "1", // red
		Help:     "241",
	}
}

// Styles contains all the style definitions for a frame
type Styles struct {
	Selected lipgloss.Style
	Count    lipgloss.Style
	Fill     lipgloss.Style
	Prompt   lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles creates styles whose color profile is detected from out.
// A nil writer uses lipgloss' default renderer.
func NewStyles(out io.Writer, colors Colors) *Styles {
	r := lipgloss.DefaultRenderer()
	if out != nil {
		r = lipgloss.NewRenderer(out)
	}
	return NewStylesWithRenderer(r, colors)
}

// NewStylesWithRenderer creates styles bound to an explicit lipgloss renderer
func NewStylesWithRenderer(r *lipgloss.Renderer, colors Colors) *Styles {
	return &Styles{
		Selected: r.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Selected)),
		Count:    r.NewStyle().Foreground(lipgloss.Color(colors.Count)),
		Fill:     r.NewStyle().Foreground(lipgloss.Color(colors.Fill)),
		Prompt:   r.NewStyle().Foreground(lipgloss.Color(colors.Prompt)),
		Status:   r.NewStyle().Foreground(lipgloss.Color(colors.Status)),
		Error:    r.NewStyle().Foreground(lipgloss.Color(colors.Error)),
		Help:     r.NewStyle().Foreground(lipgloss.Color(colors.Help)).Faint(true),
	}
}

// PlainStyles returns styles that render text unchanged
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Selected: plain,
		Count:    plain,
		Fill:     plain,
		Prompt:   plain,
		Status:   plain,
		Error:    plain,
		Help:     plain,
	}
}
