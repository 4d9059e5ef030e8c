package tui

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/sabio-ai/sabio/internal/rag"
)

type mockWorkflow struct {
	answer string
	err    error
	calls  int
}

func (m *mockWorkflow) Invoke(ctx context.Context, question string) (*rag.QueryState, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &rag.QueryState{Question: question, Answer: m.answer}, nil
}

func TestNew(t *testing.T) {
	t.Run("requires workflow", func(t *testing.T) {
		if _, err := New(context.Background(), nil); err == nil {
			t.Fatal("expected error for nil workflow")
		}
	})

	t.Run("starts in input state", func(t *testing.T) {
		m, err := New(context.Background(), &mockWorkflow{})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if m.state != StateInput {
			t.Errorf("state = %v, want StateInput", m.state)
		}
	})
}

func TestUpdate(t *testing.T) {
	newModel := func(t *testing.T, w Workflow) *Model {
		t.Helper()
		m, err := New(context.Background(), w)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		return m
	}

	t.Run("answer returns to input state", func(t *testing.T) {
		m := newModel(t, &mockWorkflow{})
		m.state = StateThinking

		updated, _ := m.Update(answerMsg{answer: "Desde main."})
		model := updated.(*Model)

		if model.state != StateInput {
			t.Errorf("state = %v, want StateInput", model.state)
		}
		last := model.messages[len(model.messages)-1]
		if last.Role != roleAssistant || last.Text != "Desde main." {
			t.Errorf("last message = %+v", last)
		}
	})

	t.Run("error becomes an error message", func(t *testing.T) {
		m := newModel(t, &mockWorkflow{})
		m.state = StateThinking

		updated, _ := m.Update(queryErrMsg{err: errors.New("db down")})
		model := updated.(*Model)

		last := model.messages[len(model.messages)-1]
		if last.Role != roleError {
			t.Errorf("last message role = %q, want error", last.Role)
		}
	})

	t.Run("cancellation shows as system message", func(t *testing.T) {
		m := newModel(t, &mockWorkflow{})
		m.state = StateThinking

		updated, _ := m.Update(queryErrMsg{err: context.Canceled})
		model := updated.(*Model)

		last := model.messages[len(model.messages)-1]
		if last.Role != roleSystem {
			t.Errorf("last message role = %q, want system", last.Role)
		}
	})

	t.Run("window size adjusts viewport", func(t *testing.T) {
		m := newModel(t, &mockWorkflow{})

		updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		model := updated.(*Model)

		if model.width != 120 || model.height != 40 {
			t.Errorf("dimensions = %dx%d, want 120x40", model.width, model.height)
		}
	})
}

func TestRunQueryCmd(t *testing.T) {
	t.Run("success yields answerMsg", func(t *testing.T) {
		w := &mockWorkflow{answer: "respuesta"}
		m, err := New(context.Background(), w)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}

		msg := m.runQuery("pregunta")()
		answer, ok := msg.(answerMsg)
		if !ok {
			t.Fatalf("msg = %T, want answerMsg", msg)
		}
		if answer.answer != "respuesta" {
			t.Errorf("answer = %q", answer.answer)
		}
		if w.calls != 1 {
			t.Errorf("workflow calls = %d, want 1", w.calls)
		}
	})

	t.Run("failure yields queryErrMsg", func(t *testing.T) {
		m, err := New(context.Background(), &mockWorkflow{err: errors.New("boom")})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}

		if _, ok := m.runQuery("pregunta")().(queryErrMsg); !ok {
			t.Fatal("expected queryErrMsg")
		}
	})
}

func TestAddMessageBound(t *testing.T) {
	m, err := New(context.Background(), &mockWorkflow{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for i := 0; i < maxMessages+20; i++ {
		m.addMessage(Message{Role: roleUser, Text: "x"})
	}
	if len(m.messages) != maxMessages {
		t.Errorf("messages = %d, want %d", len(m.messages), maxMessages)
	}
}
