package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidz-story-api/internal/config"
	apperrors "kidz-story-api/pkg/errors"
)

func newTestFactory() *EinoFactory {
	return NewEinoFactory(&config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "groq",
			Providers: map[string]config.ProviderConfig{
				"groq": {
					APIKey:  "test-key",
					BaseURL: "http://127.0.0.1:0/v1",
					Model:   "llama-3.3-70b-versatile",
					Timeout: time.Second,
				},
				"openai": {Model: "gpt-4o-mini"},
			},
		},
	})
}

func TestEinoFactory_GetCachesDefault(t *testing.T) {
	f := newTestFactory()

	first, err := f.Get(context.Background(), "")
	require.NoError(t, err)
	second, err := f.Get(context.Background(), "groq")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestEinoFactory_UnknownProvider(t *testing.T) {
	_, err := newTestFactory().Get(context.Background(), "anthropic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider anthropic not found")
}

func TestEinoFactory_MissingAPIKey(t *testing.T) {
	_, err := newTestFactory().Get(context.Background(), "openai")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeServiceUnavailable))
}

func TestEinoFactory_Providers(t *testing.T) {
	assert.Equal(t, []string{"groq", "openai"}, newTestFactory().Providers())
}
