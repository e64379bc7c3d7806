// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"kidz-story-api/internal/domain/entity"
)

// UserFilter 管理后台用户查询条件
type UserFilter struct {
	// Search 按姓名或邮箱模糊匹配，大小写不敏感
	Search string
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// Create 创建用户
	Create(ctx context.Context, user *entity.User) error

	// GetByID 根据 ID 获取用户，不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByEmail 根据邮箱获取用户，不存在时返回 nil, nil
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// Update 更新用户
	Update(ctx context.Context, user *entity.User) error

	// Delete 删除用户，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)

	// ExistsByEmail 检查邮箱是否存在
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ListWithStats 分页查询用户并附带故事数与最近创作时间
	ListWithStats(ctx context.Context, filter UserFilter, pagination Pagination, sort Sort) (*PagedResult[*entity.UserSummary], error)
}
