package config

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/viper"
)

func validConfig() *Config {
	return &Config{
		Provider:        ProviderGemini,
		ModelName:       "gemini-2.5-flash",
		EmbedderModel:   "text-embedding-004",
		Temperature:     0.2,
		PostgresHost:    "localhost",
		PostgresPort:    5432,
		PostgresUser:    "sabio",
		PostgresDBName:  "sabio",
		PostgresSSLMode: "disable",
		IngestPageSize:  25,
		IngestWorkers:   4,
		MaxDocumentSize: 100_000,
		RetrievalTopK:   4,
	}
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want gemini", cfg.Provider)
	}
	if cfg.ModelName != "gemini-2.5-flash" {
		t.Errorf("ModelName = %q", cfg.ModelName)
	}
	if cfg.IngestPageSize != 25 {
		t.Errorf("IngestPageSize = %d, want 25", cfg.IngestPageSize)
	}
	if cfg.IngestWorkers != 4 {
		t.Errorf("IngestWorkers = %d, want 4", cfg.IngestWorkers)
	}
	if cfg.RetrievalTopK != 4 {
		t.Errorf("RetrievalTopK = %d, want 4", cfg.RetrievalTopK)
	}
	if cfg.PostgresHost != "localhost" || cfg.PostgresPort != 5432 {
		t.Errorf("postgres defaults = %s:%d", cfg.PostgresHost, cfg.PostgresPort)
	}
	if cfg.TracingAgentHost != "localhost:4318" || cfg.TracingService != "sabio" {
		t.Errorf("tracing defaults = %s/%s", cfg.TracingAgentHost, cfg.TracingService)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	os.Unsetenv("DATABASE_URL")
	t.Setenv("SABIO_PROVIDER", "ollama")
	t.Setenv("SABIO_INGEST_WORKERS", "8")
	t.Setenv("WIKI_API_TOKEN", "tok-123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider != ProviderOllama {
		t.Errorf("Provider = %q, want ollama", cfg.Provider)
	}
	if cfg.IngestWorkers != 8 {
		t.Errorf("IngestWorkers = %d, want 8", cfg.IngestWorkers)
	}
	if cfg.WikiAPIToken != "tok-123" {
		t.Errorf("WikiAPIToken = %q", cfg.WikiAPIToken)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"unknown provider", func(c *Config) { c.Provider = "mistral" }, ErrInvalidProvider},
		{"empty model", func(c *Config) { c.ModelName = " " }, ErrInvalidModelName},
		{"empty embedder", func(c *Config) { c.EmbedderModel = "" }, ErrInvalidEmbedderModel},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, ErrInvalidTemperature},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }, ErrInvalidTemperature},
		{"empty postgres host", func(c *Config) { c.PostgresHost = "" }, ErrInvalidPostgresHost},
		{"port out of range", func(c *Config) { c.PostgresPort = 70000 }, ErrInvalidPostgresPort},
		{"empty db name", func(c *Config) { c.PostgresDBName = "" }, ErrInvalidPostgresDBName},
		{"page size zero", func(c *Config) { c.IngestPageSize = 0 }, ErrInvalidPageSize},
		{"page size over max", func(c *Config) { c.IngestPageSize = MaxPageSize + 1 }, ErrInvalidPageSize},
		{"workers zero", func(c *Config) { c.IngestWorkers = 0 }, ErrInvalidWorkers},
		{"workers over max", func(c *Config) { c.IngestWorkers = MaxIngestWorkers + 1 }, ErrInvalidWorkers},
		{"top-k zero", func(c *Config) { c.RetrievalTopK = 0 }, ErrInvalidTopK},
		{"top-k over max", func(c *Config) { c.RetrievalTopK = MaxRetrievalTopK + 1 }, ErrInvalidTopK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("nil config", func(t *testing.T) {
		var cfg *Config
		if !errors.Is(cfg.Validate(), ErrConfigNil) {
			t.Error("expected ErrConfigNil")
		}
	})
}

func TestValidateWiki(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		token   string
		wantErr error
	}{
		{"valid", "https://wiki.example.com", "tok", nil},
		{"missing base URL", "", "tok", ErrInvalidWikiBaseURL},
		{"missing scheme", "wiki.example.com", "tok", ErrInvalidWikiBaseURL},
		{"missing token", "https://wiki.example.com", "", ErrMissingWikiToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.WikiBaseURL = tt.baseURL
			cfg.WikiAPIToken = tt.token

			err := cfg.ValidateWiki()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateWiki() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateWiki() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
