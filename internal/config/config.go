package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Provider names
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
	ProviderPinecone = "pinecone"
	ProviderWeaviate = "weaviate"
	ProviderLocal    = "local"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Chat endpoint configuration
	ChatCfg ChatConfig `envPrefix:"CHAT_"`

	// External service configurations
	EmbeddingConnectorCfg  EmbeddingConnectorConfig  `envPrefix:"EMBEDDING_"`
	GenerationConnectorCfg GenerationConnectorConfig `envPrefix:"GENERATION_"`
	IndexConnectorCfg      IndexConnectorConfig      `envPrefix:"INDEX_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Prompt profile (system prompt, role vocabularies), loaded from YAML
	PromptFile string `env:"PROMPT_FILE"`
	Prompt     *PromptProfile

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type ChatConfig struct {
	Stream      bool  `env:"STREAM" envDefault:"true"`
	MaxBodySize int64 `env:"MAX_BODY_SIZE" envDefault:"1048576"`
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	Provider string `env:"PROVIDER" envDefault:"gemini"`
	Model    string `env:"MODEL"`
}

type GenerationConnectorConfig struct {
	HTTPClientConfig
	Provider string `env:"PROVIDER" envDefault:"gemini"`
	Model    string `env:"MODEL"`
}

type IndexConnectorConfig struct {
	HTTPClientConfig
	Provider  string   `env:"PROVIDER" envDefault:"pinecone"`
	Namespace string   `env:"NAMESPACE"`
	Class     string   `env:"CLASS" envDefault:"Review"`
	Fields    []string `env:"FIELDS" envDefault:"professor,review,subject,stars"`
	IDField   string   `env:"ID_FIELD" envDefault:"professor"`
	Dimension int      `env:"DIMENSION" envDefault:"0"`
	SeedFile  string   `env:"SEED_FILE"`
}

// HTTPClientConfig configures the shared outbound HTTP client. A zero
// RequestTimeout leaves provider calls unbounded, which streaming relies on.
type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"0s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"30s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"0s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment, applies
// provider defaults, validates it and loads the prompt profile.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	prompt, err := LoadPromptProfile(cfg.PromptFile)
	if err != nil {
		return nil, fmt.Errorf("load prompt profile: %w", err)
	}
	cfg.Prompt = prompt

	return cfg, nil
}

var defaultServiceURLs = map[string]string{
	ProviderGemini: "https://generativelanguage.googleapis.com",
	ProviderOpenAI: "https://api.openai.com",
	ProviderOllama: "http://localhost:11434",
}

var defaultEmbeddingModels = map[string]string{
	ProviderGemini: "text-embedding-004",
	ProviderOpenAI: "text-embedding-3-small",
	ProviderOllama: "nomic-embed-text",
}

var defaultGenerationModels = map[string]string{
	ProviderGemini: "gemini-1.5-flash",
	ProviderOpenAI: "gpt-4o-mini",
}

func applyDefaults(cfg *Config) {
	emb := &cfg.EmbeddingConnectorCfg
	emb.Provider = strings.ToLower(strings.TrimSpace(emb.Provider))
	if emb.Url == "" {
		emb.Url = defaultServiceURLs[emb.Provider]
	}
	if emb.Model == "" {
		emb.Model = defaultEmbeddingModels[emb.Provider]
	}

	gen := &cfg.GenerationConnectorCfg
	gen.Provider = strings.ToLower(strings.TrimSpace(gen.Provider))
	if gen.Url == "" {
		gen.Url = defaultServiceURLs[gen.Provider]
	}
	if gen.Model == "" {
		gen.Model = defaultGenerationModels[gen.Provider]
	}

	cfg.IndexConnectorCfg.Provider = strings.ToLower(strings.TrimSpace(cfg.IndexConnectorCfg.Provider))
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.ChatCfg.MaxBodySize < 1 {
		errs = append(errs, fmt.Sprintf("CHAT_MAX_BODY_SIZE must be positive, got %d", cfg.ChatCfg.MaxBodySize))
	}

	// Mocks replace every provider, so their settings are irrelevant.
	if !cfg.EnableMocks {
		errs = append(errs, validateEmbedding(cfg.EmbeddingConnectorCfg)...)
		errs = append(errs, validateGeneration(cfg.GenerationConnectorCfg)...)
		errs = append(errs, validateIndex(cfg.IndexConnectorCfg)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func validateEmbedding(c EmbeddingConnectorConfig) []string {
	var errs []string
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
		if c.Token == "" {
			errs = append(errs, fmt.Sprintf("EMBEDDING_TOKEN is required for provider %q", c.Provider))
		}
	case ProviderOllama:
	default:
		return append(errs, fmt.Sprintf("EMBEDDING_PROVIDER must be one of gemini, openai, ollama, got %q", c.Provider))
	}
	if c.Url == "" {
		errs = append(errs, "EMBEDDING_SERVICE_URL must not be empty")
	}
	return errs
}

func validateGeneration(c GenerationConnectorConfig) []string {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return []string{fmt.Sprintf("GENERATION_PROVIDER must be one of gemini, openai, got %q", c.Provider)}
	}

	var errs []string
	if c.Token == "" {
		errs = append(errs, fmt.Sprintf("GENERATION_TOKEN is required for provider %q", c.Provider))
	}
	if c.Url == "" {
		errs = append(errs, "GENERATION_SERVICE_URL must not be empty")
	}
	return errs
}

func validateIndex(c IndexConnectorConfig) []string {
	var errs []string
	switch c.Provider {
	case ProviderPinecone:
		if c.Token == "" {
			errs = append(errs, "INDEX_TOKEN is required for provider \"pinecone\"")
		}
		if c.Url == "" {
			errs = append(errs, "INDEX_SERVICE_URL (pinecone index host) must not be empty")
		}
	case ProviderWeaviate:
		if c.Url == "" {
			errs = append(errs, "INDEX_SERVICE_URL (weaviate endpoint) must not be empty")
		}
		if c.Class == "" {
			errs = append(errs, "INDEX_CLASS must not be empty")
		}
	case ProviderLocal:
		if c.SeedFile == "" {
			errs = append(errs, "INDEX_SEED_FILE is required for provider \"local\"")
		} else if _, err := os.Stat(c.SeedFile); errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Sprintf("INDEX_SEED_FILE %s does not exist", c.SeedFile))
		}
	default:
		return append(errs, fmt.Sprintf("INDEX_PROVIDER must be one of pinecone, weaviate, local, got %q", c.Provider))
	}
	if c.Dimension < 0 {
		errs = append(errs, fmt.Sprintf("INDEX_DIMENSION must not be negative, got %d", c.Dimension))
	}
	return errs
}

// Secrets returns every configured credential, used to scrub error text.
func (c *Config) Secrets() []string {
	var secrets []string
	for _, s := range []string{
		c.EmbeddingConnectorCfg.Token,
		c.GenerationConnectorCfg.Token,
		c.IndexConnectorCfg.Token,
	} {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
