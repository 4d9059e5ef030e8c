// Package tui provides the Bubble Tea terminal interface for asking
// questions against the ingested wiki.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sabio-ai/sabio/internal/rag"
)

// State represents the TUI state machine.
type State int

const (
	StateInput    State = iota // Awaiting user input
	StateThinking              // Query in flight
)

// Memory bound to prevent unbounded growth.
const maxMessages = 100

// queryTimeout bounds a single retrieve-and-generate round trip.
const queryTimeout = 2 * time.Minute

// Message role constants for consistent display.
const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleSystem    = "system"
	roleError     = "error"
)

// Layout constants for viewport height calculation.
const (
	separatorLines = 2
	promptLines    = 1
	statusLines    = 1
	minViewport    = 3
)

// Message represents a conversation message for display.
type Message struct {
	Role string // "user", "assistant", "system", "error"
	Text string
}

// Workflow answers a question against the knowledge base.
type Workflow interface {
	Invoke(ctx context.Context, question string) (*rag.QueryState, error)
}

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	input    textarea.Model
	spinner  spinner.Model
	viewport viewport.Model

	state    State
	messages []Message
	viewBuf  strings.Builder

	workflow  Workflow
	ctx       context.Context
	ctxCancel context.CancelFunc

	width  int
	height int
	styles Styles
}

// New creates a Model for chat interaction.
//
// ctx MUST be the same context passed to tea.WithContext() so
// cancellation behaves consistently.
func New(ctx context.Context, workflow Workflow) (*Model, error) {
	if workflow == nil {
		return nil, errors.New("tui.New: workflow is required")
	}
	if ctx == nil {
		return nil, errors.New("tui.New: ctx is required")
	}

	ctx, cancel := context.WithCancel(ctx)

	ta := textarea.New()
	ta.Placeholder = "Pregunta algo sobre la wiki..."
	ta.SetHeight(1)
	ta.SetWidth(120)
	ta.ShowLineNumbers = false

	cleanStyle := textarea.StyleState{
		Base:        lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle(),
	}
	ta.SetStyles(textarea.Styles{Focused: cleanStyle, Blurred: cleanStyle})
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true
	vp.KeyMap = viewport.KeyMap{} // Keys are routed explicitly in Update

	return &Model{
		input:     ta,
		spinner:   sp,
		viewport:  vp,
		workflow:  workflow,
		ctx:       ctx,
		ctxCancel: cancel,
		styles:    DefaultStyles(),
		width:     80,
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.input.Focus(),
	)
}

// addMessage appends a message and enforces the maxMessages bound.
func (m *Model) addMessage(msg Message) {
	m.messages = append(m.messages, msg)
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

// Run starts the Bubble Tea program and blocks until exit.
func Run(ctx context.Context, workflow Workflow) error {
	model, err := New(ctx, workflow)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
