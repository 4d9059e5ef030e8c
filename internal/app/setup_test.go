package app

import (
	"os"
	"testing"

	"github.com/sabio-ai/sabio/internal/config"
	"github.com/sabio-ai/sabio/internal/log"
)

func TestProvideOtelShutdown(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "")

	cfg := &config.Config{
		TracingAgentHost:   "localhost:4318",
		TracingService:     "sabio-test",
		TracingEnvironment: "test",
	}

	cleanup := provideOtelShutdown(t.Context(), cfg, log.NewNop())
	if cleanup == nil {
		t.Fatal("expected a cleanup function")
	}

	if got := os.Getenv("OTEL_SERVICE_NAME"); got != "sabio-test" {
		t.Errorf("OTEL_SERVICE_NAME = %q, want %q", got, "sabio-test")
	}
	if got := os.Getenv("OTEL_RESOURCE_ATTRIBUTES"); got != "deployment.environment=test" {
		t.Errorf("OTEL_RESOURCE_ATTRIBUTES = %q, want deployment.environment set", got)
	}

	// No collector is listening; flushing zero spans must not block or
	// fail startup-critical paths.
	cleanup()
}

func TestProvideOtelShutdownDefaultsAgentHost(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "")

	cleanup := provideOtelShutdown(t.Context(), &config.Config{}, log.NewNop())
	if cleanup == nil {
		t.Fatal("expected a cleanup function")
	}
	cleanup()
}
