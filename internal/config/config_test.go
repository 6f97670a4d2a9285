package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"recipient": "reader@example.com",
		"digest_query": "from:digest@example.com",
		"max_topics": 5,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "reader@example.com", cfg.Recipient)
	assert.Equal(t, "from:digest@example.com", cfg.DigestQuery)
	assert.Equal(t, 5, cfg.MaxTopics)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_InvalidRecipient(t *testing.T) {
	cfg := &Config{Recipient: "not-an-email"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Recipient")
}

func TestValidate_NegativeMaxTopics(t *testing.T) {
	cfg := &Config{MaxTopics: -1}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_topics")
}

func TestValidate_MissingCredentialsFile(t *testing.T) {
	cfg := &Config{CredentialsFile: "/nonexistent/credentials.json"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "credentials file not found")
}

func TestValidate_EmptyConfigIsValid(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ExistingCredentialsFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{}`), 0600))

	cfg := &Config{CredentialsFile: tmpFile, Recipient: "reader@example.com"}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Recipient: "explicit@example.com"}

	merged := cfg.MergeWithDefaults(Config{
		Recipient:    "default@example.com",
		SearchAPIKey: "default-key",
	})

	// Explicit values win, empty values fall back to defaults.
	assert.Equal(t, "explicit@example.com", merged.Recipient)
	assert.Equal(t, "default-key", merged.SearchAPIKey)

	// Unset digest query and topic cap get the package defaults.
	assert.Equal(t, DefaultDigestQuery, merged.DigestQuery)
	assert.Equal(t, DefaultMaxTopics, merged.MaxTopics)
}

func TestMergeWithDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		DigestQuery: "from:custom@example.com",
		MaxTopics:   7,
	}

	merged := cfg.MergeWithDefaults(Config{})
	assert.Equal(t, "from:custom@example.com", merged.DigestQuery)
	assert.Equal(t, 7, merged.MaxTopics)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("GOOGLE_SEARCH_API_KEY", "env-search")
	t.Setenv("SEARCH_ENGINE_ID", "env-cx")
	t.Setenv("RECIPIENT_EMAIL", "env@example.com")

	cfg := Config{GeminiAPIKey: "explicit"}
	cfg.FromEnv()

	// Explicit value wins over the environment.
	assert.Equal(t, "explicit", cfg.GeminiAPIKey)
	assert.Equal(t, "env-search", cfg.SearchAPIKey)
	assert.Equal(t, "env-cx", cfg.SearchEngineID)
	assert.Equal(t, "env@example.com", cfg.Recipient)
}
