//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"kidz-story-api/internal/application/admin"
	"kidz-story-api/internal/application/auth"
	"kidz-story-api/internal/application/story"
	"kidz-story-api/internal/config"
	"kidz-story-api/internal/domain/repository"
	"kidz-story-api/internal/infrastructure/llm"
	"kidz-story-api/internal/infrastructure/persistence/postgres"
	"kidz-story-api/internal/infrastructure/persistence/redis"
	"kidz-story-api/internal/interfaces/http/handler"
	"kidz-story-api/internal/interfaces/http/router"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		StorySet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewStoryRepository,
	postgres.NewStatsRepository,
)

// RepoSet 具体实现与仓储接口绑定
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.StoryRepository), new(*postgres.StoryRepository)),
	wire.Bind(new(repository.StatsRepository), new(*postgres.StatsRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideFeedCache,
	ProvideEventPublisher,
	redis.NewRateLimiter,
)

// StorySet 故事生成与读取
var StorySet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(story.ChatModelFactory), new(*llm.EinoFactory)),
	story.NewTextGeneratorFromConfig,
	ProvideR2UploaderOptional,
	ProvideImageUploader,
	ProvideIllustrator,
	ProvideCatalog,
	ProvideOrchestrator,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	auth.NewService,
	ProvideAdminService,
	handler.NewAuthHandler,
	wire.Bind(new(handler.AuthService), new(*auth.Service)),
	ProvideStoryHandler,
	handler.NewAdminHandler,
	wire.Bind(new(handler.AdminService), new(*admin.Service)),
	ProvideHealthHandler,
	wire.Struct(new(router.Handlers), "*"),
	ProvideRouter,
)
