package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sabio-ai/sabio/internal/knowledge"
	"github.com/sabio-ai/sabio/internal/rag"
)

type mockWorkflow struct {
	state *rag.QueryState
	err   error
}

func (m *mockWorkflow) Invoke(ctx context.Context, question string) (*rag.QueryState, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.state, nil
}

func (m *mockWorkflow) Stream(ctx context.Context, question string, fn func(rag.Transition) error) error {
	if m.err != nil {
		return m.err
	}
	if err := fn(rag.Transition{Step: rag.StepRetrieve, State: *m.state}); err != nil {
		return err
	}
	return fn(rag.Transition{Step: rag.StepGenerate, State: *m.state})
}

type mockRetriever struct {
	results []knowledge.Result
	err     error
}

func (m *mockRetriever) Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func validConfig() Config {
	return Config{
		Name:    "test-server",
		Version: "1.0.0",
		Workflow: &mockWorkflow{
			state: &rag.QueryState{Answer: "respuesta"},
		},
		Retriever: &mockRetriever{},
	}
}

func TestNewServer_Success(t *testing.T) {
	server, err := NewServer(validConfig())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if server == nil {
		t.Fatal("NewServer returned nil server")
	}
	if server.mcpServer == nil {
		t.Error("underlying MCP server not initialized")
	}
}

func TestNewServer_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing name", func(c *Config) { c.Name = "" }},
		{"missing version", func(c *Config) { c.Version = "" }},
		{"missing workflow", func(c *Config) { c.Workflow = nil }},
		{"missing retriever", func(c *Config) { c.Retriever = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			if _, err := NewServer(cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRAGQuery_Success(t *testing.T) {
	server, err := NewServer(validConfig())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	result, _, err := server.RAGQuery(t.Context(), &mcp.CallToolRequest{}, QueryInput{
		Question: "¿Cómo se despliega el servicio?",
	})
	if err != nil {
		t.Fatalf("RAGQuery failed: %v", err)
	}

	if result.IsError {
		t.Errorf("RAGQuery returned error result: %v", result.Content)
	}
	if got := textContent(t, result); got != "respuesta" {
		t.Errorf("answer = %q, want %q", got, "respuesta")
	}
}

func TestRAGQuery_EmptyQuestion(t *testing.T) {
	server, err := NewServer(validConfig())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	for _, question := range []string{"", "   ", "\n\t"} {
		result, _, err := server.RAGQuery(t.Context(), &mcp.CallToolRequest{}, QueryInput{Question: question})
		if err != nil {
			t.Fatalf("RAGQuery(%q) failed: %v", question, err)
		}
		if !result.IsError {
			t.Errorf("RAGQuery(%q): expected IsError result", question)
		}
		if got := textContent(t, result); !strings.Contains(got, "must not be empty") {
			t.Errorf("RAGQuery(%q) payload = %q, want empty-question message", question, got)
		}
	}
}

func TestRAGQuery_WorkflowFailureIsToolError(t *testing.T) {
	// Workflow failures become IsError text payloads, never protocol
	// errors.
	cfg := validConfig()
	cfg.Workflow = &mockWorkflow{err: errors.New("db unavailable")}

	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	result, _, err := server.RAGQuery(t.Context(), &mcp.CallToolRequest{}, QueryInput{Question: "hola"})
	if err != nil {
		t.Fatalf("RAGQuery failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError result")
	}
	if got := textContent(t, result); !strings.Contains(got, "Error: ") || !strings.Contains(got, "db unavailable") {
		t.Errorf("payload = %q, want wrapped workflow error", got)
	}
}

func TestRAGStreamQuery_ReturnsFinalAnswer(t *testing.T) {
	server, err := NewServer(validConfig())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	result, _, err := server.RAGStreamQuery(t.Context(), &mcp.CallToolRequest{}, QueryInput{
		Question: "¿Cómo se despliega el servicio?",
	})
	if err != nil {
		t.Fatalf("RAGStreamQuery failed: %v", err)
	}

	if result.IsError {
		t.Errorf("RAGStreamQuery returned error result: %v", result.Content)
	}
	if got := textContent(t, result); got != "respuesta" {
		t.Errorf("answer = %q, want %q", got, "respuesta")
	}
}

func TestRAGStreamQuery_EmptyQuestion(t *testing.T) {
	server, err := NewServer(validConfig())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	result, _, err := server.RAGStreamQuery(t.Context(), &mcp.CallToolRequest{}, QueryInput{Question: "  "})
	if err != nil {
		t.Fatalf("RAGStreamQuery failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError result")
	}
}

func TestRAGStreamQuery_WorkflowFailureIsToolError(t *testing.T) {
	cfg := validConfig()
	cfg.Workflow = &mockWorkflow{err: errors.New("modelo no disponible")}

	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	result, _, err := server.RAGStreamQuery(t.Context(), &mcp.CallToolRequest{}, QueryInput{Question: "hola"})
	if err != nil {
		t.Fatalf("RAGStreamQuery failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError result")
	}
	if got := textContent(t, result); !strings.Contains(got, "modelo no disponible") {
		t.Errorf("payload = %q, want wrapped workflow error", got)
	}
}

func TestSearchWiki_FormatsResults(t *testing.T) {
	cfg := validConfig()
	cfg.Retriever = &mockRetriever{results: []knowledge.Result{
		{
			Proposition: knowledge.Proposition{
				Content: "El servicio se despliega con cada push a main.",
				Metadata: map[string]string{
					knowledge.MetaSourceDocumentTitle: "Despliegue",
				},
			},
			Similarity: 0.91,
		},
	}}

	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	result, _, err := server.SearchWiki(t.Context(), &mcp.CallToolRequest{}, SearchWikiInput{Query: "despliegue"})
	if err != nil {
		t.Fatalf("SearchWiki failed: %v", err)
	}

	if result.IsError {
		t.Errorf("SearchWiki returned error result: %v", result.Content)
	}
	got := textContent(t, result)
	for _, want := range []string{"1.", "0.91", "El servicio se despliega", "Despliegue"} {
		if !strings.Contains(got, want) {
			t.Errorf("payload = %q, missing %q", got, want)
		}
	}
}

func TestSearchWiki_EmptyQueryAndNoResults(t *testing.T) {
	server, err := NewServer(validConfig())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	result, _, err := server.SearchWiki(t.Context(), &mcp.CallToolRequest{}, SearchWikiInput{Query: " "})
	if err != nil {
		t.Fatalf("SearchWiki failed: %v", err)
	}
	if !result.IsError {
		t.Error("empty query: expected IsError result")
	}

	result, _, err = server.SearchWiki(t.Context(), &mcp.CallToolRequest{}, SearchWikiInput{Query: "nada"})
	if err != nil {
		t.Fatalf("SearchWiki failed: %v", err)
	}
	if result.IsError {
		t.Error("no results is not an error")
	}
	if got := textContent(t, result); !strings.Contains(got, "No matching propositions") {
		t.Errorf("payload = %q, want no-results message", got)
	}
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}
