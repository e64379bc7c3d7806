// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"kidz-story-api/internal/application/admin"
	"kidz-story-api/internal/application/auth"
	"kidz-story-api/internal/application/story"
	"kidz-story-api/internal/config"
	"kidz-story-api/internal/domain/repository"
	"kidz-story-api/internal/domain/service"
	"kidz-story-api/internal/infrastructure/image"
	"kidz-story-api/internal/infrastructure/messaging"
	"kidz-story-api/internal/infrastructure/persistence/postgres"
	"kidz-story-api/internal/infrastructure/persistence/redis"
	"kidz-story-api/internal/infrastructure/storage"
	"kidz-story-api/internal/interfaces/http/handler"
	"kidz-story-api/internal/interfaces/http/router"
	"kidz-story-api/pkg/logger"
)

const feedCacheName = "feed"

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres, cfg.Observability.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideFeedCache 公共故事流缓存，关闭时返回 nil
func ProvideFeedCache(client *redis.Client, cfg *config.Config) story.FeedCache {
	if !cfg.Cache.Feed.Enabled {
		return nil
	}
	return redis.NewCache(client, feedCacheName)
}

// ProvideEventPublisher 未启用 Redis Stream 时事件直接丢弃
func ProvideEventPublisher(client *redis.Client, cfg *config.Config) service.EventPublisher {
	if !cfg.Messaging.RedisStream.Enabled {
		return service.NopPublisher{}
	}
	return messaging.NewProducer(client.Redis(), cfg.Messaging.RedisStream.MaxLen)
}

// ProvideR2UploaderOptional R2 未配置时返回 nil，插图将降级为空
func ProvideR2UploaderOptional(ctx context.Context, cfg *config.Config) *storage.R2Uploader {
	uploader, err := storage.NewR2Uploader(&cfg.Storage.R2)
	if err != nil {
		logger.Warn(ctx, "r2 storage not available, stories will be saved without images", "error", err.Error())
		return nil
	}
	return uploader
}

// ProvideImageUploader 提供插图上传器
func ProvideImageUploader(r2 *storage.R2Uploader) image.Uploader {
	if r2 == nil {
		return storage.Unavailable{Err: storage.ErrNotConfigured}
	}
	return r2
}

// ProvideIllustrator 提供插图生成器
func ProvideIllustrator(cfg *config.Config, uploader image.Uploader) *image.Illustrator {
	client := image.NewStabilityClient(&cfg.Image)
	return image.NewIllustrator(client, uploader, client.OutputFormat())
}

// ProvideCatalog 提供故事读取服务
func ProvideCatalog(stories repository.StoryRepository, cache story.FeedCache, cfg *config.Config) *story.Catalog {
	return story.NewCatalog(stories, cache, cfg.Cache.Feed.TTL)
}

// ProvideOrchestrator 提供故事生成编排器
func ProvideOrchestrator(
	content *story.TextGenerator,
	images *image.Illustrator,
	stories repository.StoryRepository,
	tx repository.Transactor,
	events service.EventPublisher,
	catalog *story.Catalog,
	cfg *config.Config,
) *story.Orchestrator {
	return story.NewOrchestrator(content, images, stories, tx, events, catalog, story.OrchestratorOptions{
		Policy:       story.RetryPolicyFromConfig(cfg),
		ImageRetries: cfg.Generation.ImageRetries,
		Limit: story.LimitPolicy{
			Enabled:    cfg.Features.StoryLimit.Enabled,
			MaxPerUser: cfg.Features.StoryLimit.MaxPerUser,
		},
		Timeout: cfg.Generation.Timeout,
	})
}

// ProvideAdminService 提供管理后台服务
func ProvideAdminService(
	users repository.UserRepository,
	stories repository.StoryRepository,
	stats repository.StatsRepository,
	tx repository.Transactor,
	events service.EventPublisher,
	catalog *story.Catalog,
	cfg *config.Config,
) *admin.Service {
	return admin.NewService(users, stories, stats, tx, events, catalog, cfg)
}

// ProvideStoryHandler 提供故事处理器
func ProvideStoryHandler(orchestrator *story.Orchestrator, catalog *story.Catalog) *handler.StoryHandler {
	return handler.NewStoryHandler(orchestrator, catalog)
}

// ProvideHealthHandler 提供健康检查处理器，R2 为可选依赖
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rdb *redis.Client, r2 *storage.R2Uploader) *handler.HealthHandler {
	deps := []handler.Dependency{
		{Name: "postgres", Checker: pg},
		{Name: "redis", Checker: rdb},
	}
	r2Dep := handler.Dependency{Name: "r2", Optional: true}
	if r2 != nil {
		r2Dep.Checker = r2
	}
	return handler.NewHealthHandler(cfg.App.Version, append(deps, r2Dep)...)
}

// ProvideRouter 提供 HTTP 路由器
func ProvideRouter(
	cfg *config.Config,
	handlers router.Handlers,
	authSvc *auth.Service,
	limiter *redis.RateLimiter,
) *router.Router {
	return router.New(cfg, handlers, authSvc.JWT(), limiter, redis.BuildRateLimitKey)
}
