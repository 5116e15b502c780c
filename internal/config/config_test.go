package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setProviderEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EMBEDDING_PROVIDER", "gemini")
	t.Setenv("EMBEDDING_TOKEN", "emb-key")
	t.Setenv("GENERATION_PROVIDER", "gemini")
	t.Setenv("GENERATION_TOKEN", "gen-key")
	t.Setenv("INDEX_PROVIDER", "pinecone")
	t.Setenv("INDEX_TOKEN", "idx-key")
	t.Setenv("INDEX_SERVICE_URL", "https://rag-abc.svc.pinecone.io")
}

func TestParse_Defaults(t *testing.T) {
	setProviderEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.True(t, cfg.ChatCfg.Stream)
	assert.EqualValues(t, 1<<20, cfg.ChatCfg.MaxBodySize)
	assert.Equal(t, "https://generativelanguage.googleapis.com", cfg.EmbeddingConnectorCfg.Url)
	assert.Equal(t, "text-embedding-004", cfg.EmbeddingConnectorCfg.Model)
	assert.Equal(t, "gemini-1.5-flash", cfg.GenerationConnectorCfg.Model)
	assert.Equal(t, []string{"professor", "review", "subject", "stars"}, cfg.IndexConnectorCfg.Fields)
	require.NotNil(t, cfg.Prompt)
	assert.Equal(t, "model", cfg.Prompt.Roles[ProviderGemini].Assistant)
	assert.ElementsMatch(t, []string{"emb-key", "gen-key", "idx-key"}, cfg.Secrets())
}

func TestParse_MissingKeysFailFast(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("GENERATION_TOKEN", "")
	t.Setenv("INDEX_TOKEN", "")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATION_TOKEN")
	assert.Contains(t, err.Error(), "INDEX_TOKEN")
}

func TestParse_UnknownProvider(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("INDEX_PROVIDER", "qdrant")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INDEX_PROVIDER")
}

func TestParse_OllamaNeedsNoToken(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("EMBEDDING_PROVIDER", "ollama")
	t.Setenv("EMBEDDING_TOKEN", "")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", cfg.EmbeddingConnectorCfg.Url)
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingConnectorCfg.Model)
}

func TestParse_LocalIndexRequiresSeedFile(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("INDEX_PROVIDER", "local")
	t.Setenv("INDEX_SEED_FILE", filepath.Join(t.TempDir(), "missing.json"))

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INDEX_SEED_FILE")
}

func TestParse_MocksSkipProviderValidation(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("EMBEDDING_TOKEN", "")
	t.Setenv("GENERATION_TOKEN", "")
	t.Setenv("INDEX_TOKEN", "")

	_, err := Parse()
	require.NoError(t, err)
}

func TestLoadPromptProfile_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	content := `
system_prompt: "Be brief."
roles:
  gemini:
    assistant: bot
  mistral:
    user: user
    assistant: assistant
    system: system
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	profile, err := LoadPromptProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "Be brief.", profile.SystemPrompt)
	assert.Equal(t, defaultContextHeader, profile.ContextHeader)
	assert.Equal(t, RoleVocabulary{User: "user", Assistant: "bot", System: "user"}, profile.Roles[ProviderGemini])
	assert.Equal(t, "assistant", profile.Roles["mistral"].Assistant)
	assert.Equal(t, "ai", profile.Roles[ProviderOpenAI].Assistant)
}

func TestLoadPromptProfile_IncompleteNewProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  mistral:\n    user: user\n"), 0o600))

	_, err := LoadPromptProfile(path)
	require.Error(t, err)
}
