package repository

import (
	"context"

	"kidz-story-api/internal/domain/entity"
)

// StoryFilter 管理后台故事查询条件
type StoryFilter struct {
	// Search 匹配标题、正文或喜爱事物
	Search   string
	Language string
	AgeGroup string
}

// StoryRepository 故事仓储接口
type StoryRepository interface {
	// Create 保存故事
	Create(ctx context.Context, story *entity.Story) error

	// GetByID 根据 ID 获取故事，不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.Story, error)

	// ListRecent 公共故事流，按创建时间倒序
	ListRecent(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Story], error)

	// ListByUser 获取用户全部故事，按创建时间倒序
	ListByUser(ctx context.Context, userID string) ([]*entity.Story, error)

	// Search 管理后台分页查询
	Search(ctx context.Context, filter StoryFilter, pagination Pagination, sort Sort) (*PagedResult[*entity.StoryListing], error)

	// CountByUser 统计用户故事数
	CountByUser(ctx context.Context, userID string) (int64, error)

	// LockUser 在当前事务内对用户加排他锁，事务结束自动释放
	LockUser(ctx context.Context, userID string) error

	// Delete 删除故事，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteByUser 删除用户全部故事
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
