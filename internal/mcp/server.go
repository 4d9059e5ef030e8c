// Package mcp exposes the query workflow over the Model Context
// Protocol so external agents can ask the knowledge base questions.
//
// The server speaks over a transport supplied by the caller (stdio in
// production), which is why nothing in this process may write to
// stdout except the protocol itself.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sabio-ai/sabio/internal/knowledge"
	"github.com/sabio-ai/sabio/internal/rag"
)

// Workflow is the query pipeline the server fronts.
type Workflow interface {
	Invoke(ctx context.Context, question string) (*rag.QueryState, error)
	Stream(ctx context.Context, question string, fn func(rag.Transition) error) error
}

// Retriever answers raw semantic search requests.
type Retriever interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
}

// Server wraps the MCP SDK server around the query workflow.
type Server struct {
	mcpServer *mcp.Server
	workflow  Workflow
	retriever Retriever
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name      string
	Version   string
	Workflow  Workflow
	Retriever Retriever
}

// NewServer creates a new MCP server and registers its tools.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Workflow == nil {
		return nil, fmt.Errorf("workflow is required")
	}
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		workflow:  cfg.Workflow,
		retriever: cfg.Retriever,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport.
// This is a blocking call that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

func (s *Server) registerTools() error {
	if err := s.registerRAGQuery(); err != nil {
		return fmt.Errorf("failed to register ragQuery: %w", err)
	}
	if err := s.registerRAGStreamQuery(); err != nil {
		return fmt.Errorf("failed to register ragStreamQuery: %w", err)
	}
	if err := s.registerSearchWiki(); err != nil {
		return fmt.Errorf("failed to register searchWiki: %w", err)
	}
	return nil
}

// QueryInput defines the input schema for the ragQuery and
// ragStreamQuery tools.
type QueryInput struct {
	Question string `json:"question" jsonschema:"The question to answer from the team wiki, in Spanish"`
}

func (s *Server) registerRAGQuery() error {
	inputSchema, err := jsonschema.For[QueryInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        "ragQuery",
		Description: "Answer a question using the ingested team wiki. Retrieves relevant propositions and generates a grounded Spanish answer.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, s.RAGQuery)

	return nil
}

// RAGQuery handles the ragQuery MCP tool call.
func (s *Server) RAGQuery(ctx context.Context, req *mcp.CallToolRequest, in QueryInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Question) == "" {
		return errorResult("Error: question must not be empty"), nil, nil
	}

	state, err := s.workflow.Invoke(ctx, in.Question)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil, nil
	}

	return textResult(state.Answer), nil, nil
}

func (s *Server) registerRAGStreamQuery() error {
	inputSchema, err := jsonschema.For[QueryInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        "ragStreamQuery",
		Description: "Answer a question using the ingested team wiki, collecting incremental workflow updates. Tool calls are atomic, so only the final answer is returned.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, s.RAGStreamQuery)

	return nil
}

// RAGStreamQuery handles the ragStreamQuery MCP tool call.
func (s *Server) RAGStreamQuery(ctx context.Context, req *mcp.CallToolRequest, in QueryInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Question) == "" {
		return errorResult("Error: question must not be empty"), nil, nil
	}

	// The protocol has no channel for partial tool results, so
	// collect the transitions and answer from the last one.
	var answer string
	err := s.workflow.Stream(ctx, in.Question, func(t rag.Transition) error {
		if t.Step == rag.StepGenerate {
			answer = t.State.Answer
		}
		return nil
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil, nil
	}

	return textResult(answer), nil, nil
}

// SearchWikiInput defines the input schema for the searchWiki tool.
type SearchWikiInput struct {
	Query string `json:"query" jsonschema:"The semantic search query"`
	TopK  int    `json:"topK,omitempty" jsonschema:"Maximum number of propositions to return (default 4)"`
}

func (s *Server) registerSearchWiki() error {
	inputSchema, err := jsonschema.For[SearchWikiInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        "searchWiki",
		Description: "Semantic search over the ingested wiki propositions. Returns raw propositions with their source documents, without generating an answer.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, s.SearchWiki)

	return nil
}

// SearchWiki handles the searchWiki MCP tool call.
func (s *Server) SearchWiki(ctx context.Context, req *mcp.CallToolRequest, in SearchWikiInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Query) == "" {
		return errorResult("Error: query must not be empty"), nil, nil
	}

	opts := []knowledge.SearchOption{}
	if in.TopK > 0 {
		opts = append(opts, knowledge.WithTopK(in.TopK))
	}

	results, err := s.retriever.Search(ctx, in.Query, opts...)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil, nil
	}

	if len(results) == 0 {
		return textResult("No matching propositions found."), nil, nil
	}

	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. [%.2f] %s (source: %s)\n",
			i+1, r.Similarity, r.Proposition.Content,
			r.Proposition.Metadata[knowledge.MetaSourceDocumentTitle])
	}

	return textResult(strings.TrimRight(sb.String(), "\n")), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
