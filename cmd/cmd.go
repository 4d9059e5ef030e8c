// Package cmd provides CLI commands for Sabio.
//
// Commands:
//   - ingest: Walk the wiki and chunk every document into the store
//   - ask: One-shot question against the ingested corpus
//   - chat: Interactive terminal chat with Bubble Tea TUI
//   - mcp: Model Context Protocol server for agent integration
//
// Signal handling and graceful shutdown are implemented for all
// commands via context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sabio-ai/sabio/internal/log"
)

// Execute is the main entry point for the Sabio CLI application.
func Execute() error {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	// MCP owns stdout for the protocol, so all logging goes to stderr.
	slog.SetDefault(log.New(log.Config{Level: level}))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "ingest":
		return runIngest()
	case "ask":
		return runAsk(os.Args[2:])
	case "chat":
		return runChat()
	case "mcp":
		return runMCP()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("Sabio - Pregunta a la documentación de tu equipo")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sabio ingest        Ingest the wiki into the knowledge store")
	fmt.Println("  sabio ask <question> Ask a one-shot question")
	fmt.Println("  sabio chat          Start interactive chat mode")
	fmt.Println("  sabio mcp           Start MCP server (stdio transport)")
	fmt.Println("  sabio --version     Show version information")
	fmt.Println("  sabio --help        Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY      Required for the gemini provider")
	fmt.Println("  SABIO_WIKI_API_TOKEN Required for ingest")
	fmt.Println("  DATABASE_URL        Optional: overrides postgres config")
	fmt.Println("  DEBUG               Optional: enable debug logging")
}
