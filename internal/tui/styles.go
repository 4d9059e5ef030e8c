package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Amber accent for the Sabio branding.
const accentColor = "#E8A33D"

var sabioArt = []string{
	"  ███████╗ █████╗ ██████╗ ██╗ ██████╗ ",
	"  ██╔════╝██╔══██╗██╔══██╗██║██╔═══██╗",
	"  ███████╗███████║██████╔╝██║██║   ██║",
	"  ╚════██║██╔══██║██╔══██╗██║██║   ██║",
	"  ███████║██║  ██║██████╔╝██║╚██████╔╝",
	"  ╚══════╝╚═╝  ╚═╝╚═════╝ ╚═╝ ╚═════╝ ",
}

// Styles contains all lipgloss styles for the TUI.
type Styles struct {
	Banner    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
	Separator lipgloss.Style
	StatusBar lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentColor)),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentColor)),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}

// RenderBanner renders the startup banner.
func (s Styles) RenderBanner() string {
	var b strings.Builder
	for _, line := range sabioArt {
		b.WriteString(s.Banner.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(s.System.Render("  Pregunta sobre la documentación del equipo.\n"))
	return b.String()
}
