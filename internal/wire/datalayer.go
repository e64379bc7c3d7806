package wire

import (
	"kidz-story-api/internal/infrastructure/persistence/postgres"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient  *postgres.Client
	TxManager *postgres.TxManager
	UserRepo  *postgres.UserRepository
	StoryRepo *postgres.StoryRepository
	StatsRepo *postgres.StatsRepository
}
