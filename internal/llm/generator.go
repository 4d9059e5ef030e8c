// Package llm wraps Genkit model access behind a small Generator
// interface so the chunking and answering pipelines can be tested
// without a live provider.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenkitGenerator is the production Generator backed by a Genkit
// instance and the configured provider model.
type GenkitGenerator struct {
	g           *genkit.Genkit
	modelName   string
	temperature float64
}

// NewGenerator creates a Generator bound to a fully-qualified model
// name (e.g. "googleai/gemini-2.5-flash").
func NewGenerator(g *genkit.Genkit, modelName string, temperature float64) *GenkitGenerator {
	return &GenkitGenerator{g: g, modelName: modelName, temperature: temperature}
}

// Generate runs a single completion and returns the trimmed response
// text. An empty response is an error: callers always expect content.
func (gg *GenkitGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	opts := []ai.GenerateOption{
		ai.WithPrompt(prompt),
		ai.WithConfig(&ai.GenerationCommonConfig{Temperature: gg.temperature}),
	}
	if gg.modelName != "" {
		opts = append(opts, ai.WithModelName(gg.modelName))
	}

	resp, err := genkit.Generate(ctx, gg.g, opts...)
	if err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}

	return text, nil
}
