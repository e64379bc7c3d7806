package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

const minimalConfig = `
server:
  http:
    port: ${TEST_HTTP_PORT:9090}
llm:
  default_provider: groq
  providers:
    groq:
      api_key: ${TEST_GROQ_KEY:}
security:
  admin:
    emails: ${TEST_ADMIN_EMAILS:}
`

func TestLoadFrom_DefaultsAndExpansion(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", minimalConfig)
	t.Setenv("APP_ENV", "unit")
	t.Setenv("TEST_GROQ_KEY", "gsk_123")
	t.Setenv("TEST_ADMIN_EMAILS", "admin@example.com,ops@example.com")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, "gsk_123", cfg.LLM.Providers["groq"].APIKey)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Providers["groq"].Model)
	assert.Equal(t, 0.7, cfg.Generation.Temperature)
	assert.Equal(t, 1, cfg.Generation.MaxRetries)
	assert.Equal(t, 2, cfg.Generation.LanguageCheckRetries)
	assert.Equal(t, 2, cfg.Generation.ImageRetries)
	assert.Equal(t, 2*time.Second, cfg.Generation.RetryBaseDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Generation.LanguageCheckDelay)
	assert.Equal(t, "sd3.5-large-turbo", cfg.Image.Model)
	assert.Equal(t, "kidzTory_images", cfg.Storage.R2.Folder)
	assert.Equal(t, 1, cfg.Features.StoryLimit.MaxPerUser)
	assert.True(t, cfg.Security.Admin.IsAdmin("ops@example.com"))
	assert.False(t, cfg.Security.Admin.IsAdmin("kid@example.com"))
}

func TestLoadFrom_EnvironmentOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", minimalConfig)
	writeConfig(t, dir, "config.staging.yaml", "features:\n  story_limit:\n    max_per_user: 3\n")
	t.Setenv("APP_ENV", "staging")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Features.StoryLimit.MaxPerUser)
}

func TestLoadFrom_MissingDefaultFile(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestValidate_UnknownProvider(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "llm:\n  default_provider: missing\n")
	t.Setenv("APP_ENV", "unit")

	_, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("EXPAND_SET", "value")
	assert.Equal(t, "a=value", expandEnv("a=${EXPAND_SET}"))
	assert.Equal(t, "b=fallback", expandEnv("b=${EXPAND_UNSET_XYZ:fallback}"))
	assert.Equal(t, "c=${EXPAND_UNSET_XYZ}", expandEnv("c=${EXPAND_UNSET_XYZ}"))
}

func TestAdminConfig_IsAdmin(t *testing.T) {
	c := AdminConfig{Emails: []string{" Admin@Example.com "}}
	assert.True(t, c.IsAdmin("admin@example.com"))
	assert.False(t, c.IsAdmin(""))
}
