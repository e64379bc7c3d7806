package story

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/sync/errgroup"

	"kidz-story-api/internal/config"
	"kidz-story-api/internal/domain/language"
	llmctx "kidz-story-api/internal/domain/service"
)

// ChatModelFactory 应用层对 LLM ChatModel 的最小依赖（port），由 infrastructure/llm 实现
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}

// GenerationResult 单次文本生成结果
type GenerationResult struct {
	Text             string `json:"text"`
	LanguageVerified bool   `json:"languageVerified"`
}

// Content 正文与标题
type Content struct {
	Story GenerationResult
	Title GenerationResult
}

// TextSettings 文本生成参数
type TextSettings struct {
	Provider             string
	Temperature          float32
	MaxRetries           int
	LanguageCheckRetries int
}

var errEmptyResponse = errors.New("empty llm response")

// TextGenerator 通过托管 LLM 生成故事正文与标题
type TextGenerator struct {
	factory  ChatModelFactory
	settings TextSettings
	policy   RetryPolicy
}

// NewTextGenerator 创建文本生成器
func NewTextGenerator(factory ChatModelFactory, settings TextSettings, policy RetryPolicy) *TextGenerator {
	return &TextGenerator{
		factory:  factory,
		settings: settings,
		policy:   policy,
	}
}

// NewTextGeneratorFromConfig 按配置创建文本生成器
func NewTextGeneratorFromConfig(factory ChatModelFactory, cfg *config.Config) *TextGenerator {
	return NewTextGenerator(factory, TextSettings{
		Provider:             cfg.LLM.DefaultProvider,
		Temperature:          float32(cfg.Generation.Temperature),
		MaxRetries:           cfg.Generation.MaxRetries,
		LanguageCheckRetries: cfg.Generation.LanguageCheckRetries,
	}, RetryPolicyFromConfig(cfg))
}

// RetryPolicyFromConfig 从配置读取重试间隔
func RetryPolicyFromConfig(cfg *config.Config) RetryPolicy {
	return RetryPolicy{
		BaseDelay:  cfg.Generation.RetryBaseDelay,
		CheckDelay: cfg.Generation.LanguageCheckDelay,
	}
}

// GenerateStoryText 生成故事正文
func (g *TextGenerator) GenerateStoryText(ctx context.Context, prompt string, lang language.Language) (*GenerationResult, error) {
	ctx = llmctx.WithLLMCall(ctx, llmctx.WorkflowStoryText, g.settings.Provider, lang.Name())
	return g.generate(ctx, lang.SystemMessage(), prompt, lang)
}

// GenerateStoryTitle 生成故事标题
func (g *TextGenerator) GenerateStoryTitle(ctx context.Context, titlePrompt string, lang language.Language) (*GenerationResult, error) {
	ctx = llmctx.WithLLMCall(ctx, llmctx.WorkflowStoryTitle, g.settings.Provider, lang.Name())
	return g.generate(ctx, lang.TitleSystemMessage(), titlePrompt, lang)
}

// GenerateContent 并发生成正文与标题，任一失败则整体失败
func (g *TextGenerator) GenerateContent(ctx context.Context, storyPrompt, titlePrompt string, lang language.Language) (*Content, error) {
	var story, title *GenerationResult

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		story, err = g.GenerateStoryText(egCtx, storyPrompt, lang)
		return err
	})
	eg.Go(func() error {
		var err error
		title, err = g.GenerateStoryTitle(egCtx, titlePrompt, lang)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &Content{Story: *story, Title: *title}, nil
}

// generate 外层重试兜底传输与配额错误，内层循环负责语言校验
func (g *TextGenerator) generate(ctx context.Context, system, prompt string, lang language.Language) (*GenerationResult, error) {
	checked, err := WithRetry(ctx, g.policy, g.settings.MaxRetries, func(ctx context.Context) (Checked[string], error) {
		return GenerateWithLanguageCheck(ctx, g.policy, lang, g.settings.LanguageCheckRetries,
			func(ctx context.Context) (string, error) {
				return g.call(ctx, system, prompt)
			},
			func(text string) string { return text },
		)
	})
	if err != nil {
		return nil, err
	}
	return &GenerationResult{Text: checked.Value, LanguageVerified: checked.Verified}, nil
}

// call 单次 LLM 调用
func (g *TextGenerator) call(ctx context.Context, system, prompt string) (string, error) {
	chatModel, err := g.factory.Get(ctx, g.settings.Provider)
	if err != nil {
		return "", err
	}

	msgs := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(prompt),
	}
	out, err := chatModel.Generate(ctx, msgs, model.WithTemperature(g.settings.Temperature))
	if err != nil {
		return "", err
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errEmptyResponse
	}
	return strings.TrimSpace(out.Content), nil
}
