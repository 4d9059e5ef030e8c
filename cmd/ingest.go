package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/sabio-ai/sabio/internal/app"
	"github.com/sabio-ai/sabio/internal/config"
)

// runIngest walks the configured wiki and chunks every document into
// the knowledge store. Re-running is safe: already-ingested documents
// are skipped.
func runIngest() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateWiki(); err != nil {
		return fmt.Errorf("wiki configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Warn("shutdown error", "error", closeErr)
		}
	}()

	controller, err := a.NewIngestController()
	if err != nil {
		return fmt.Errorf("creating ingest controller: %w", err)
	}

	result, err := controller.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingestion: %w", err)
	}

	fmt.Printf("Ingestion complete: %d processed, %d skipped, %d failed, %d propositions stored\n",
		result.Processed, result.Skipped, result.Failed, result.Propositions)

	if result.Failed > 0 {
		return fmt.Errorf("%d documents failed; see logs and re-run to retry them", result.Failed)
	}
	return nil
}
