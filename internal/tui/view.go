package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// View implements tea.Model.
// AltScreen with a viewport for scrollable message history.
func (m *Model) View() tea.View {
	m.viewBuf.Reset()

	m.viewBuf.WriteString(m.viewport.View())
	m.viewBuf.WriteString("\n")

	m.viewBuf.WriteString(m.renderSeparator())
	m.viewBuf.WriteString("\n")

	m.viewBuf.WriteString(m.styles.Prompt.Render("> "))
	m.viewBuf.WriteString(m.input.View())
	m.viewBuf.WriteString("\n")

	m.viewBuf.WriteString(m.renderSeparator())
	m.viewBuf.WriteString("\n")

	m.viewBuf.WriteString(m.styles.StatusBar.Render("enter enviar • esc salir • pgup/pgdn desplazar"))

	v := tea.NewView(m.viewBuf.String())
	v.AltScreen = true
	return v
}

// rebuildViewportContent reconstructs the viewport content from
// messages and state. Called when messages or state change.
func (m *Model) rebuildViewportContent() {
	var b strings.Builder

	b.WriteString(m.styles.RenderBanner())
	b.WriteString("\n")

	for _, msg := range m.messages {
		switch msg.Role {
		case roleUser:
			b.WriteString(m.styles.User.Render("Tú> "))
			b.WriteString(msg.Text)
		case roleAssistant:
			b.WriteString(m.styles.Assistant.Render("Sabio> "))
			b.WriteString(msg.Text)
		case roleSystem:
			b.WriteString(m.styles.System.Render(msg.Text))
		case roleError:
			b.WriteString(m.styles.Error.Render("Error: " + msg.Text))
		}
		b.WriteString("\n\n")
	}

	if m.state == StateThinking {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(m.styles.System.Render("pensando..."))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

// renderSeparator draws a horizontal line across the current width.
func (m *Model) renderSeparator() string {
	width := max(m.width, 1)
	return m.styles.Separator.Render(strings.Repeat("─", width))
}
