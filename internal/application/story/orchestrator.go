package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/language"
	"kidz-story-api/internal/domain/repository"
	"kidz-story-api/internal/domain/service"
	apperrors "kidz-story-api/pkg/errors"
	"kidz-story-api/pkg/logger"
	"kidz-story-api/pkg/metrics"
	"kidz-story-api/pkg/tracer"
)

// 请求字段名，与前端表单一致
const (
	FieldUserID         = "userId"
	FieldAgeGroup       = "ageGroup"
	FieldLanguage       = "language"
	FieldFavoriteThings = "favoriteThings"
	FieldWorld          = "world"
	FieldTheme          = "theme"
	FieldMood           = "mood"
)

// 与 stories 表列宽一致，超长时在生成前拒绝
const (
	MaxUserIDLength   = 36
	MaxLanguageLength = 64
	MaxAgeGroupLength = 128
)

// Stage 编排阶段
type Stage string

const (
	StageValidating        Stage = "validating"
	StageGeneratingContent Stage = "generating_content"
	StageGeneratingImage   Stage = "generating_image"
	StagePersisting        Stage = "persisting"
	StageDone              Stage = "done"
	StageFailed            Stage = "failed"
)

// StageError 记录失败发生的阶段
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("story pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage 返回错误链中的失败阶段
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// Request 生成请求
type Request struct {
	AgeGroup       Field  `json:"ageGroup"`
	Language       string `json:"language"`
	FavoriteThings Field  `json:"favoriteThings"`
	World          Field  `json:"world"`
	Theme          Field  `json:"theme"`
	Mood           Field  `json:"mood"`
	StoryPrompt    string `json:"storyPrompt,omitempty"`
	UserID         string `json:"userId"`
}

// MissingFields 返回缺失或为空的必填字段，顺序固定
func (r *Request) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.UserID) == "" {
		missing = append(missing, FieldUserID)
	}
	if r.AgeGroup.IsEmpty() {
		missing = append(missing, FieldAgeGroup)
	}
	if strings.TrimSpace(r.Language) == "" {
		missing = append(missing, FieldLanguage)
	}
	if r.FavoriteThings.IsEmpty() {
		missing = append(missing, FieldFavoriteThings)
	}
	if r.World.IsEmpty() {
		missing = append(missing, FieldWorld)
	}
	if r.Theme.IsEmpty() {
		missing = append(missing, FieldTheme)
	}
	if r.Mood.IsEmpty() {
		missing = append(missing, FieldMood)
	}
	return missing
}

// Result 生成结果
type Result struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Story            string   `json:"story"`
	ImageURL         *string  `json:"imageUrl"`
	AgeGroup         string   `json:"ageGroup"`
	Language         string   `json:"language"`
	FavoriteThings   []string `json:"favoriteThings"`
	World            string   `json:"world"`
	Theme            string   `json:"theme"`
	Mood             string   `json:"mood"`
	UserID           string   `json:"userId"`
	Prompt           string   `json:"prompt"`
	LanguageVerified bool     `json:"languageVerified"`
	TitleVerified    bool     `json:"titleVerified"`
}

// ContentGenerator 并发生成正文与标题
type ContentGenerator interface {
	GenerateContent(ctx context.Context, storyPrompt, titlePrompt string, lang language.Language) (*Content, error)
}

// ImageGenerator 生成插图并上传，返回公开访问地址
type ImageGenerator interface {
	GenerateAndUpload(ctx context.Context, prompt string) (string, error)
}

// FeedInvalidator 故事变更后失效公共列表缓存
type FeedInvalidator interface {
	InvalidateFeed(ctx context.Context) error
}

// LimitPolicy 每用户故事数上限
type LimitPolicy struct {
	Enabled    bool
	MaxPerUser int
}

// OrchestratorOptions 编排参数
type OrchestratorOptions struct {
	Policy       RetryPolicy
	ImageRetries int
	Limit        LimitPolicy
	// Timeout 整条流水线的超时，0 表示不限
	Timeout time.Duration
	// OnTransition 阶段切换回调，可为空
	OnTransition func(from, to Stage)
}

// Orchestrator 串联字段校验、文本生成、插图生成与持久化
type Orchestrator struct {
	content ContentGenerator
	images  ImageGenerator
	stories repository.StoryRepository
	tx      repository.Transactor
	events  service.EventPublisher
	feed    FeedInvalidator
	opts    OrchestratorOptions
}

// NewOrchestrator 创建编排器
func NewOrchestrator(
	content ContentGenerator,
	images ImageGenerator,
	stories repository.StoryRepository,
	tx repository.Transactor,
	events service.EventPublisher,
	feed FeedInvalidator,
	opts OrchestratorOptions,
) *Orchestrator {
	if events == nil {
		events = service.NopPublisher{}
	}
	return &Orchestrator{
		content: content,
		images:  images,
		stories: stories,
		tx:      tx,
		events:  events,
		feed:    feed,
		opts:    opts,
	}
}

// prepared 校验通过后的归一化请求
type prepared struct {
	lang           language.Language
	fields         PromptFields
	favoriteThings []string
	storyPrompt    string
	titlePrompt    string
	imagePrompt    string
}

// Generate 执行一次完整的故事生成
func (o *Orchestrator) Generate(ctx context.Context, req *Request) (res *Result, err error) {
	ctx, span := tracer.Start(ctx, "story.Orchestrator.Generate")
	defer span.End()

	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}

	ctx = logger.WithContext(ctx, logger.UserIDKey, req.UserID)
	lang := language.Parse(req.Language)
	start := time.Now()
	stage := StageValidating

	defer func() {
		status := "success"
		if err != nil {
			status = "failed"
			failedAt := stage
			o.transition(ctx, &stage, StageFailed)
			metrics.StoryStageFailures.WithLabelValues(string(failedAt)).Inc()
			tracer.RecordError(span, err)
			if appErr := apperrors.AsAppError(err); appErr.HTTPStatus < 500 {
				logger.Warn(ctx, "story request rejected", "stage", string(failedAt), "error", err.Error())
			} else {
				logger.Error(ctx, "story generation failed", err, "stage", string(failedAt))
			}
			err = &StageError{Stage: failedAt, Err: err}
		}
		metrics.StoryGenerationTotal.WithLabelValues(lang.Kind().String(), status).Inc()
		metrics.StoryGenerationDuration.WithLabelValues(lang.Kind().String()).Observe(time.Since(start).Seconds())
	}()

	p, err := o.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	o.transition(ctx, &stage, StageGeneratingContent)
	logger.Info(ctx, "generating story content", "language", lang.Name())
	content, err := o.content.GenerateContent(ctx, p.storyPrompt, p.titlePrompt, p.lang)
	if err != nil {
		return nil, toUpstreamError(err, apperrors.CodeLLMCallFailed, "story generation failed")
	}

	o.transition(ctx, &stage, StageGeneratingImage)
	imageURL := o.generateImage(ctx, p.imagePrompt)

	o.transition(ctx, &stage, StagePersisting)
	story := &entity.Story{
		Title:          CleanTitle(content.Title.Text),
		AgeGroup:       p.fields.AgeGroup,
		Language:       lang.Name(),
		FavoriteThings: p.favoriteThings,
		World:          p.fields.World,
		Theme:          p.fields.Theme,
		Mood:           p.fields.Mood,
		Story:          content.Story.Text,
		ImageURL:       imageURL,
		Prompt:         p.storyPrompt,
		CreatedBy:      req.UserID,
		UserID:         req.UserID,
	}
	if err := o.persist(ctx, story); err != nil {
		return nil, err
	}

	o.transition(ctx, &stage, StageDone)
	ctx = logger.WithContext(ctx, logger.StoryIDKey, story.ID)
	metrics.StoryWordCount.WithLabelValues(lang.Kind().String()).Observe(float64(len(strings.Fields(story.Story))))
	logger.Info(ctx, "story generated",
		"language", lang.Name(),
		"language_verified", content.Story.LanguageVerified,
		"title_verified", content.Title.LanguageVerified,
		"has_image", story.HasImage(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	o.afterCreate(ctx, story)

	return &Result{
		ID:               story.ID,
		Title:            story.Title,
		Story:            story.Story,
		ImageURL:         story.ImageURL,
		AgeGroup:         story.AgeGroup,
		Language:         story.Language,
		FavoriteThings:   story.FavoriteThings,
		World:            story.World,
		Theme:            story.Theme,
		Mood:             story.Mood,
		UserID:           story.UserID,
		Prompt:           story.Prompt,
		LanguageVerified: content.Story.LanguageVerified,
		TitleVerified:    content.Title.LanguageVerified,
	}, nil
}

func (o *Orchestrator) transition(ctx context.Context, stage *Stage, next Stage) {
	logger.Debug(ctx, "story pipeline stage", "from", string(*stage), "to", string(next))
	if o.opts.OnTransition != nil {
		o.opts.OnTransition(*stage, next)
	}
	*stage = next
}

// validate 用户存在性、配额预检与字段校验，顺序与前端约定一致
func (o *Orchestrator) validate(ctx context.Context, req *Request) (*prepared, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, apperrors.New(apperrors.CodeNotFound, "stories not found")
	}
	if utf8.RuneCountInString(req.UserID) > MaxUserIDLength {
		return nil, apperrors.NewValidationError(FieldUserID)
	}

	if o.opts.Limit.Enabled {
		n, err := o.stories.CountByUser(ctx, req.UserID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to check story limit")
		}
		if n >= int64(o.opts.Limit.MaxPerUser) {
			return nil, apperrors.ErrStoryLimitReached
		}
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, apperrors.NewValidationError(missing...)
	}

	var (
		fields PromptFields
		err    error
	)
	if fields.AgeGroup, err = FormatField(FieldAgeGroup, req.AgeGroup); err != nil {
		return nil, err
	}
	if fields.World, err = FormatField(FieldWorld, req.World); err != nil {
		return nil, err
	}
	if fields.Theme, err = FormatField(FieldTheme, req.Theme); err != nil {
		return nil, err
	}
	if fields.Mood, err = FormatField(FieldMood, req.Mood); err != nil {
		return nil, err
	}
	favorites, err := ParseFavoriteThings(req.FavoriteThings)
	if err != nil {
		return nil, err
	}
	fields.FavoriteThings = strings.Join(favorites, ", ")

	lang := language.Parse(req.Language)
	var oversized []string
	if utf8.RuneCountInString(fields.AgeGroup) > MaxAgeGroupLength {
		oversized = append(oversized, FieldAgeGroup)
	}
	if utf8.RuneCountInString(lang.Name()) > MaxLanguageLength {
		oversized = append(oversized, FieldLanguage)
	}
	if len(oversized) > 0 {
		return nil, apperrors.NewValidationError(oversized...)
	}
	storyPrompt := BuildStoryPrompt(fields, lang, false)
	if raw := strings.TrimSpace(req.StoryPrompt); raw != "" {
		storyPrompt = BuildLanguageSpecificPrompt(raw, lang)
	}

	return &prepared{
		lang:           lang,
		fields:         fields,
		favoriteThings: favorites,
		storyPrompt:    storyPrompt,
		titlePrompt:    BuildStoryPrompt(fields, lang, true),
		imagePrompt:    BuildImagePrompt(fields),
	}, nil
}

// generateImage 插图失败不影响故事保存，返回 nil
func (o *Orchestrator) generateImage(ctx context.Context, prompt string) *string {
	if o.images == nil {
		return nil
	}

	start := time.Now()
	url, err := WithRetry(ctx, o.opts.Policy, o.opts.ImageRetries, func(ctx context.Context) (string, error) {
		return o.images.GenerateAndUpload(ctx, prompt)
	})
	metrics.ImageGenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ImageGenerationTotal.WithLabelValues("failed").Inc()
		logger.Warn(ctx, "image generation failed, saving story without image", "error", err.Error())
		return nil
	}

	metrics.ImageGenerationTotal.WithLabelValues("success").Inc()
	return &url
}

// persist 在事务内按用户加锁复核上限后写入
func (o *Orchestrator) persist(ctx context.Context, story *entity.Story) error {
	err := o.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if o.opts.Limit.Enabled {
			if err := o.stories.LockUser(txCtx, story.UserID); err != nil {
				return err
			}
			n, err := o.stories.CountByUser(txCtx, story.UserID)
			if err != nil {
				return err
			}
			if n >= int64(o.opts.Limit.MaxPerUser) {
				return apperrors.ErrStoryLimitReached
			}
		}
		return o.stories.Create(txCtx, story)
	})
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		if apperrors.IsCode(err, apperrors.CodeStoryLimitReached) {
			logger.Warn(ctx, "story limit reached during save, discarding generated content")
		}
		return err
	}
	return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save story")
}

// afterCreate 失效缓存并发布事件，失败只记录日志
func (o *Orchestrator) afterCreate(ctx context.Context, story *entity.Story) {
	if o.feed != nil {
		if err := o.feed.InvalidateFeed(ctx); err != nil {
			logger.Warn(ctx, "failed to invalidate story feed cache", "error", err.Error())
		}
	}

	event := &entity.DomainEvent{
		Type:        entity.EventStoryCreated,
		AggregateID: story.ID,
		UserID:      story.UserID,
		Payload: map[string]any{
			"language":  story.Language,
			"has_image": story.HasImage(),
		},
		OccurredAt: time.Now(),
	}
	if err := o.events.Publish(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish story event", "error", err.Error(), "event", string(event.Type))
	}
}

// toUpstreamError 过载类错误保持 503，其余包装为上游失败
func toUpstreamError(err error, code apperrors.ErrorCode, msg string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.CodeServiceUnavailable, "story generation timed out, please try again")
	}
	return apperrors.Wrap(err, code, msg)
}
