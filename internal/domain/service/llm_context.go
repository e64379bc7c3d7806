// Package service 定义跨层共享的领域服务端口与上下文约定
package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyWorkflow llmCtxKey = "llm_workflow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
	llmCtxKeyLanguage llmCtxKey = "llm_language"
)

// 生成流程名称，用于指标与追踪标签
const (
	WorkflowStoryText  = "story_text"
	WorkflowStoryTitle = "story_title"
)

const unknown = "unknown"

func withValue(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func valueOrUnknown(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknown
	}
	s, ok := ctx.Value(key).(string)
	if !ok || s == "" {
		return unknown
	}
	return s
}

// WithLLMCall 标记本次 LLM 调用所属流程、提供商与目标语言
func WithLLMCall(ctx context.Context, workflow, provider, language string) context.Context {
	ctx = withValue(ctx, llmCtxKeyWorkflow, workflow)
	ctx = withValue(ctx, llmCtxKeyProvider, provider)
	return withValue(ctx, llmCtxKeyLanguage, language)
}

func WorkflowFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyWorkflow)
}

func ProviderFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyProvider)
}

func LanguageFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyLanguage)
}
