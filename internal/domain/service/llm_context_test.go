package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithLLMCall(t *testing.T) {
	ctx := WithLLMCall(context.Background(), WorkflowStoryTitle, " groq ", "Urdu")
	assert.Equal(t, WorkflowStoryTitle, WorkflowFromContext(ctx))
	assert.Equal(t, "groq", ProviderFromContext(ctx))
	assert.Equal(t, "Urdu", LanguageFromContext(ctx))
}

func TestFromContext_Unknown(t *testing.T) {
	ctx := WithLLMCall(context.Background(), "", "  ", "")
	assert.Equal(t, "unknown", WorkflowFromContext(ctx))
	assert.Equal(t, "unknown", ProviderFromContext(ctx))
	assert.Equal(t, "unknown", LanguageFromContext(ctx))
}
