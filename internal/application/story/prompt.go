package story

import (
	"fmt"

	"kidz-story-api/internal/domain/language"
)

// PromptFields 归一化后的提示词字段
type PromptFields struct {
	AgeGroup       string
	Theme          string
	Mood           string
	World          string
	FavoriteThings string
}

const contentTemplate = "Create a children's %s for %s age group. Theme: %s, Mood: %s, Setting: %s, Including: %s."

func (f PromptFields) render(contentType string) string {
	return fmt.Sprintf(contentTemplate, contentType, f.AgeGroup, f.Theme, f.Mood, f.World, f.FavoriteThings)
}

// BuildStoryPrompt 构建正文或标题提示词，语言指令在前
func BuildStoryPrompt(fields PromptFields, lang language.Language, isTitle bool) string {
	contentType := "complete story"
	if isTitle {
		contentType = "title (3-4 words)"
	}
	return lang.Instruction(isTitle) + fields.render(contentType)
}

// BuildImagePrompt 构建插图提示词，不带语言指令
func BuildImagePrompt(fields PromptFields) string {
	return fields.render("book illustration")
}

// BuildLanguageSpecificPrompt 在用户自由输入的提示词前追加语言前缀
func BuildLanguageSpecificPrompt(raw string, lang language.Language) string {
	return lang.RawPromptPrefix() + raw
}
