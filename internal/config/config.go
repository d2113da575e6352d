// Package config builds the process configuration once at startup.
// Components receive it by reference; nothing reads credentials from
// ambient state after construction.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for all EMAILRAG_* environment variables.
// Unprefixed OPENAI_API_KEY is also honored for compatibility with
// standard OpenAI tooling.
const EnvPrefix = "EMAILRAG"

// Config holds every external identifier and credential the pipeline needs.
type Config struct {
	// OpenAI. An empty key is not an error: the pipeline runs in offline
	// mode (zero-vector embeddings, deterministic fallback generation).
	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	ChatModel      string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	ImageModel     string `envconfig:"IMAGE_MODEL" default:"dall-e-3"`

	// Qdrant index service.
	QdrantHost string `envconfig:"QDRANT_HOST" default:"localhost"`
	QdrantPort int    `envconfig:"QDRANT_PORT" default:"6334"`

	// Collection holds the email corpus vectors.
	Collection string `envconfig:"COLLECTION" default:"email-campaigns"`

	// CorpusFile is the normalized-corpus checkpoint path.
	CorpusFile string `envconfig:"CORPUS_FILE" default:"email_templates.json"`

	// DataDir holds the saved-emails database. Empty means the
	// platform default under the user's home directory.
	DataDir string `envconfig:"DATA_DIR"`

	// Optional GitHub corpus source.
	GitHubToken string `envconfig:"GITHUB_TOKEN"`
}

// Load populates a Config from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	// Fall back to the conventional unprefixed variables.
	if cfg.OpenAIAPIKey == "" {
		var std struct {
			OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
			GitHubToken  string `envconfig:"GITHUB_TOKEN"`
		}
		if err := envconfig.Process("", &std); err == nil {
			cfg.OpenAIAPIKey = std.OpenAIAPIKey
			if cfg.GitHubToken == "" {
				cfg.GitHubToken = std.GitHubToken
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the identifiers the pipeline cannot start without.
// Missing credentials are deliberately not checked here; offline mode
// is a designed behavior, a missing identifier is operator error.
func (c *Config) Validate() error {
	if c.Collection == "" {
		return fmt.Errorf("%w: collection name (EMAILRAG_COLLECTION)", ErrMissingConfig)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("%w: embedding model (EMAILRAG_EMBEDDING_MODEL)", ErrMissingConfig)
	}
	if c.ChatModel == "" {
		return fmt.Errorf("%w: chat model (EMAILRAG_CHAT_MODEL)", ErrMissingConfig)
	}
	return nil
}

// HasOpenAI reports whether a model provider is configured.
func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
