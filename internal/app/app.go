// Package app provides application initialization and dependency
// wiring. App is the container that owns Genkit, the database pool,
// the knowledge store, and the pipelines built on top of them.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sabio-ai/sabio/internal/chunker"
	"github.com/sabio-ai/sabio/internal/config"
	"github.com/sabio-ai/sabio/internal/ingest"
	"github.com/sabio-ai/sabio/internal/knowledge"
	"github.com/sabio-ai/sabio/internal/rag"
	"github.com/sabio-ai/sabio/internal/wiki"
)

// App is the core application container.
type App struct {
	Config *config.Config

	// Core services
	Genkit    *genkit.Genkit
	Embedder  ai.Embedder
	DBPool    *pgxpool.Pool
	Knowledge *knowledge.Store

	// Pipelines
	Chunker  *chunker.Chunker
	Workflow *rag.Workflow

	logger      *slog.Logger
	otelCleanup func()
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	a.logger.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.logger.Info("database pool closed")
	}

	// Flush pending spans last so pool teardown is captured.
	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}

// NewIngestController wires an ingestion run against the configured
// wiki. Built on demand because it needs wiki credentials that the
// query commands never require.
func (a *App) NewIngestController() (*ingest.Controller, error) {
	if err := a.Config.ValidateWiki(); err != nil {
		return nil, err
	}

	client, err := wiki.New(a.Config.WikiBaseURL, a.Config.WikiAPIToken)
	if err != nil {
		return nil, err
	}

	return ingest.New(client, a.Knowledge, a.Chunker,
		a.Config.IngestPageSize, a.Config.IngestWorkers, a.logger), nil
}
