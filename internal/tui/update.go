package tui

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
)

// answerMsg carries a completed query back into the event loop.
type answerMsg struct {
	answer string
}

// queryErrMsg carries a failed query back into the event loop.
type queryErrMsg struct {
	err error
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputHeight := m.input.Height() + promptLines
		fixedHeight := separatorLines + inputHeight + statusLines
		vpHeight := max(msg.Height-fixedHeight, minViewport)

		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(vpHeight)
		m.input.SetWidth(msg.Width - 4)

		m.rebuildViewportContent()
		return m, nil

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state == StateThinking {
			m.rebuildViewportContent()
		}
		return m, cmd

	case answerMsg:
		m.state = StateInput
		m.addMessage(Message{Role: roleAssistant, Text: msg.answer})
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, m.input.Focus()

	case queryErrMsg:
		m.state = StateInput
		switch {
		case errors.Is(msg.err, context.Canceled):
			m.addMessage(Message{Role: roleSystem, Text: "(Cancelado)"})
		case errors.Is(msg.err, context.DeadlineExceeded):
			m.addMessage(Message{Role: roleError, Text: "La consulta tardó demasiado. Intenta una pregunta más simple."})
		default:
			m.addMessage(Message{Role: roleError, Text: msg.err.Error()})
		}
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes key presses by state.
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.ctxCancel()
		return m, tea.Quit

	case "pgup":
		m.viewport.HalfPageUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfPageDown()
		return m, nil

	case "enter":
		if m.state != StateInput {
			return m, nil
		}
		question := strings.TrimSpace(m.input.Value())
		if question == "" {
			return m, nil
		}

		m.input.Reset()
		m.addMessage(Message{Role: roleUser, Text: question})
		m.state = StateThinking
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, tea.Batch(m.spinner.Tick, m.runQuery(question))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runQuery executes the workflow off the event loop.
func (m *Model) runQuery(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, queryTimeout)
		defer cancel()

		state, err := m.workflow.Invoke(ctx, question)
		if err != nil {
			return queryErrMsg{err: err}
		}
		return answerMsg{answer: state.Answer}
	}
}
