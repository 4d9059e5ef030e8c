// Package rag implements the retrieve-then-generate query workflow.
// Retrieval always completes before generation starts, and the
// retrieved context is passed to the model verbatim: ranking and
// filtering belong to the store, not this layer.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sabio-ai/sabio/internal/knowledge"
	"github.com/sabio-ai/sabio/internal/llm"
)

// Step identifies a workflow stage in a Transition.
type Step string

const (
	StepRetrieve Step = "retrieve"
	StepGenerate Step = "generate"
)

// QueryState carries a question through the workflow. Context holds
// the retrieved propositions newline-joined in similarity order.
type QueryState struct {
	Question string
	Context  string
	Answer   string
}

// Transition is one completed workflow step with the state after it.
type Transition struct {
	Step  Step
	State QueryState
}

// Retriever performs semantic search over the knowledge store.
type Retriever interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
}

// Workflow answers questions against the ingested corpus.
//
// Workflow is safe for concurrent use by multiple goroutines.
type Workflow struct {
	retriever Retriever
	generator llm.Generator
	topK      int
	logger    *slog.Logger
}

// New creates a Workflow.
func New(retriever Retriever, generator llm.Generator, topK int, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	if topK <= 0 {
		topK = 4
	}

	return &Workflow{
		retriever: retriever,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Invoke runs the full workflow and returns the final state.
func (w *Workflow) Invoke(ctx context.Context, question string) (*QueryState, error) {
	var final *QueryState
	err := w.Stream(ctx, question, func(t Transition) error {
		if t.Step == StepGenerate {
			state := t.State
			final = &state
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return final, nil
}

// Stream runs the workflow, invoking fn after each completed step.
// An error from fn aborts the remaining steps.
func (w *Workflow) Stream(ctx context.Context, question string, fn func(Transition) error) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}

	state := QueryState{Question: question}

	results, err := w.retriever.Search(ctx, question, knowledge.WithTopK(w.topK))
	if err != nil {
		return fmt.Errorf("retrieving context: %w", err)
	}
	state.Context = joinContext(results)

	w.logger.Debug("retrieved context",
		"question_length", len(question), "results", len(results))

	if err := fn(Transition{Step: StepRetrieve, State: state}); err != nil {
		return err
	}

	response, err := w.generator.Generate(ctx, buildAnswerPrompt(state.Question, state.Context))
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}
	state.Answer = llm.StripReasoning(response)

	return fn(Transition{Step: StepGenerate, State: state})
}

// joinContext flattens search results into the prompt context block,
// preserving the store's similarity ordering.
func joinContext(results []knowledge.Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Proposition.Content)
	}
	return strings.Join(parts, "\n")
}
