package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrubEnv removes every variable Load reads so values exported in
// the test runner's shell cannot leak into assertions. t.Setenv
// registers restoration of the original values.
func scrubEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY",
		"GITHUB_TOKEN",
		"EMAILRAG_OPENAI_API_KEY",
		"EMAILRAG_EMBEDDING_MODEL",
		"EMAILRAG_CHAT_MODEL",
		"EMAILRAG_IMAGE_MODEL",
		"EMAILRAG_QDRANT_HOST",
		"EMAILRAG_QDRANT_PORT",
		"EMAILRAG_COLLECTION",
		"EMAILRAG_CORPUS_FILE",
		"EMAILRAG_DATA_DIR",
		"EMAILRAG_GITHUB_TOKEN",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	scrubEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
	assert.Equal(t, "dall-e-3", cfg.ImageModel)
	assert.Equal(t, "localhost", cfg.QdrantHost)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.Equal(t, "email-campaigns", cfg.Collection)
	assert.Equal(t, "email_templates.json", cfg.CorpusFile)
	assert.False(t, cfg.HasOpenAI())
}

func TestLoad_PrefixedOverrides(t *testing.T) {
	scrubEnv(t)
	t.Setenv("EMAILRAG_COLLECTION", "staging-emails")
	t.Setenv("EMAILRAG_QDRANT_PORT", "7001")
	t.Setenv("EMAILRAG_OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging-emails", cfg.Collection)
	assert.Equal(t, 7001, cfg.QdrantPort)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.True(t, cfg.HasOpenAI())
}

func TestLoad_UnprefixedOpenAIKeyFallback(t *testing.T) {
	scrubEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-standard")
	t.Setenv("GITHUB_TOKEN", "ghp-standard")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-standard", cfg.OpenAIAPIKey)
	assert.Equal(t, "ghp-standard", cfg.GitHubToken)
}

func TestLoad_PrefixedKeyWinsOverUnprefixed(t *testing.T) {
	scrubEnv(t)
	t.Setenv("EMAILRAG_OPENAI_API_KEY", "sk-prefixed")
	t.Setenv("OPENAI_API_KEY", "sk-standard")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-prefixed", cfg.OpenAIAPIKey)
}

// TestLoad_ExplicitlyEmptyModelRejected: a variable exported with an
// empty value bypasses the struct-tag default (envconfig only applies
// defaults to unset variables), so validation must catch the empty
// identifier at startup.
func TestLoad_ExplicitlyEmptyModelRejected(t *testing.T) {
	scrubEnv(t)
	t.Setenv("EMAILRAG_CHAT_MODEL", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestLoad_ExplicitlyEmptyCollectionRejected(t *testing.T) {
	scrubEnv(t)
	t.Setenv("EMAILRAG_COLLECTION", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestValidate_MissingCollection(t *testing.T) {
	cfg := &Config{EmbeddingModel: "m", ChatModel: "m"}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingConfig)
}

func TestHasOpenAI(t *testing.T) {
	assert.False(t, (&Config{}).HasOpenAI())
	assert.True(t, (&Config{OpenAIAPIKey: "k"}).HasOpenAI())
}
