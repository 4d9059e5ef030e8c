package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/sabio-ai/sabio/internal/app"
	"github.com/sabio-ai/sabio/internal/config"
	"github.com/sabio-ai/sabio/internal/tui"
)

// runChat starts the interactive Bubble Tea chat interface.
func runChat() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
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

	if err := tui.Run(ctx, a.Workflow); err != nil {
		return fmt.Errorf("chat interface: %w", err)
	}
	return nil
}
