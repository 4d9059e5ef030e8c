// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.sabio/config.yaml)
//  3. Default values
//
// Categories:
//   - AI: provider, generation model, embedder model, temperature
//   - Storage: PostgreSQL connection (see storage.go)
//   - Wiki: document source base URL and API token
//   - Ingest: page size, worker bound, document size ceiling
//   - RAG: retrieval breadth
//   - Observability: OTLP trace export to a local collector agent
//
// Sensitive values (passwords, tokens) are never logged.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel errors for configuration validation, checked with errors.Is().
var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidEmbedderModel indicates the embedder model is empty.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is empty.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is empty.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidWikiBaseURL indicates the wiki base URL is malformed.
	ErrInvalidWikiBaseURL = errors.New("invalid wiki base URL")

	// ErrMissingWikiToken indicates the wiki API token is not set.
	ErrMissingWikiToken = errors.New("missing wiki API token")

	// ErrInvalidPageSize indicates the ingest page size is out of range.
	ErrInvalidPageSize = errors.New("invalid ingest page size")

	// ErrInvalidWorkers indicates the ingest worker bound is out of range.
	ErrInvalidWorkers = errors.New("invalid ingest worker count")

	// ErrInvalidTopK indicates the retrieval breadth is out of range.
	ErrInvalidTopK = errors.New("invalid retrieval top-k")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

const (
	// MaxPageSize is the largest page the wiki source accepts per list call.
	MaxPageSize = 100

	// MaxIngestWorkers bounds concurrent per-document tasks within a page.
	MaxIngestWorkers = 32

	// MaxRetrievalTopK bounds retrieval breadth to keep prompts small.
	MaxRetrievalTopK = 20
)

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider      string  `mapstructure:"provider"`       // "gemini" (default), "ollama", "openai"
	ModelName     string  `mapstructure:"model_name"`     // e.g. "gemini-2.5-flash", "llama3.3", "gpt-4o"
	EmbedderModel string  `mapstructure:"embedder_model"` // e.g. "text-embedding-004"
	Temperature   float32 `mapstructure:"temperature"`
	OllamaHost    string  `mapstructure:"ollama_host"` // only used when provider is "ollama"

	// Storage configuration (see storage.go)
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"` // SENSITIVE: never logged
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// Wiki document source configuration
	WikiBaseURL  string `mapstructure:"wiki_base_url"`
	WikiAPIToken string `mapstructure:"wiki_api_token"` // SENSITIVE: never logged

	// Ingestion configuration
	IngestPageSize  int `mapstructure:"ingest_page_size"`
	IngestWorkers   int `mapstructure:"ingest_workers"`
	MaxDocumentSize int `mapstructure:"max_document_size"` // bytes; 0 disables the ceiling

	// RAG configuration
	RetrievalTopK int `mapstructure:"retrieval_top_k"`

	// Tracing configuration. Spans are exported over OTLP HTTP to a
	// local collector agent; exporter failures disable tracing rather
	// than aborting startup.
	TracingAgentHost   string `mapstructure:"tracing_agent_host"`
	TracingService     string `mapstructure:"tracing_service"`
	TracingEnvironment string `mapstructure:"tracing_environment"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".sabio")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is not an error, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL overrides individual postgres_* settings.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("embedder_model", "text-embedding-004")
	viper.SetDefault("temperature", 0.2)
	viper.SetDefault("ollama_host", "http://localhost:11434")

	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "sabio")
	viper.SetDefault("postgres_password", "")
	viper.SetDefault("postgres_db_name", "sabio")
	viper.SetDefault("postgres_ssl_mode", "disable")

	viper.SetDefault("wiki_base_url", "")
	viper.SetDefault("wiki_api_token", "")

	viper.SetDefault("ingest_page_size", 25)
	viper.SetDefault("ingest_workers", 4)
	viper.SetDefault("max_document_size", 100_000)

	viper.SetDefault("retrieval_top_k", 4)

	viper.SetDefault("tracing_agent_host", "localhost:4318")
	viper.SetDefault("tracing_service", "sabio")
	viper.SetDefault("tracing_environment", "dev")
}

func bindEnvVariables() {
	viper.SetEnvPrefix("SABIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Conventional, unprefixed aliases for credentials.
	_ = viper.BindEnv("wiki_api_token", "SABIO_WIKI_API_TOKEN", "WIKI_API_TOKEN")
	_ = viper.BindEnv("wiki_base_url", "SABIO_WIKI_BASE_URL", "WIKI_BASE_URL")
}

// Validate checks configuration ranges and returns the first violation.
// Connection credentials that only specific commands need (wiki token)
// are validated at the command boundary, not here.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	switch c.Provider {
	case ProviderGemini, ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: %q (expected gemini, ollama or openai)", ErrInvalidProvider, c.Provider)
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return fmt.Errorf("%w: embedder model must not be empty", ErrInvalidEmbedderModel)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %.2f (expected 0.0-2.0)", ErrInvalidTemperature, c.Temperature)
	}

	if strings.TrimSpace(c.PostgresHost) == "" {
		return fmt.Errorf("%w: host must not be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if strings.TrimSpace(c.PostgresDBName) == "" {
		return fmt.Errorf("%w: database name must not be empty", ErrInvalidPostgresDBName)
	}

	if c.IngestPageSize < 1 || c.IngestPageSize > MaxPageSize {
		return fmt.Errorf("%w: %d (expected 1-%d)", ErrInvalidPageSize, c.IngestPageSize, MaxPageSize)
	}
	if c.IngestWorkers < 1 || c.IngestWorkers > MaxIngestWorkers {
		return fmt.Errorf("%w: %d (expected 1-%d)", ErrInvalidWorkers, c.IngestWorkers, MaxIngestWorkers)
	}
	if c.RetrievalTopK < 1 || c.RetrievalTopK > MaxRetrievalTopK {
		return fmt.Errorf("%w: %d (expected 1-%d)", ErrInvalidTopK, c.RetrievalTopK, MaxRetrievalTopK)
	}

	return nil
}

// ValidateWiki checks the document-source settings required by ingestion.
// Fails fast before any work is accepted.
func (c *Config) ValidateWiki() error {
	if strings.TrimSpace(c.WikiBaseURL) == "" {
		return fmt.Errorf("%w: wiki_base_url must be set", ErrInvalidWikiBaseURL)
	}
	if !strings.HasPrefix(c.WikiBaseURL, "http://") && !strings.HasPrefix(c.WikiBaseURL, "https://") {
		return fmt.Errorf("%w: %q", ErrInvalidWikiBaseURL, c.WikiBaseURL)
	}
	if strings.TrimSpace(c.WikiAPIToken) == "" {
		return ErrMissingWikiToken
	}
	return nil
}
