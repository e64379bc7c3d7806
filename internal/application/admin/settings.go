package admin

const notSet = "Not set"

// Settings 当前生效的外部服务配置，敏感值脱敏
type Settings struct {
	LLMProvider       string `json:"LLM_PROVIDER"`
	LLMModel          string `json:"LLM_MODEL"`
	GroqAPIKey        string `json:"GROQ_API_KEY"`
	StabilityAPIKey   string `json:"STABILITY_API_KEY"`
	JWTSecret         string `json:"JWT_SECRET"`
	Database          string `json:"DATABASE"`
	R2AccountID       string `json:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `json:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `json:"R2_SECRET_ACCESS_KEY"`
	R2Bucket          string `json:"R2_BUCKET"`
	StoryLimit        int    `json:"STORY_LIMIT_PER_USER"`
}

// maskKey 只保留末尾 4 位
func maskKey(v string) string {
	if v == "" {
		return notSet
	}
	r := []rune(v)
	if len(r) <= 4 {
		return "***"
	}
	return "***" + string(r[len(r)-4:])
}

func presence(v string) string {
	if v == "" {
		return notSet
	}
	return "Set"
}

func plain(v string) string {
	if v == "" {
		return notSet
	}
	return v
}

// Settings 返回脱敏后的配置，只读
func (s *Service) Settings() *Settings {
	cfg := s.cfg
	provider := cfg.LLM.Providers[cfg.LLM.DefaultProvider]

	limit := 0
	if cfg.Features.StoryLimit.Enabled {
		limit = cfg.Features.StoryLimit.MaxPerUser
	}

	return &Settings{
		LLMProvider:       plain(cfg.LLM.DefaultProvider),
		LLMModel:          plain(provider.Model),
		GroqAPIKey:        maskKey(provider.APIKey),
		StabilityAPIKey:   maskKey(cfg.Image.APIKey),
		JWTSecret:         presence(cfg.Security.JWT.Secret),
		Database:          presence(cfg.Database.Postgres.Host),
		R2AccountID:       plain(cfg.Storage.R2.AccountID),
		R2AccessKeyID:     maskKey(cfg.Storage.R2.AccessKeyID),
		R2SecretAccessKey: presence(cfg.Storage.R2.SecretAccessKey),
		R2Bucket:          plain(cfg.Storage.R2.Bucket),
		StoryLimit:        limit,
	}
}
