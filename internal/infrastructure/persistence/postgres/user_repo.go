// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
)

// userSortColumns 管理后台用户列表可排序字段
var userSortColumns = map[string]string{
	"createdAt":     "u.created_at",
	"updatedAt":     "u.updated_at",
	"fullName":      "u.full_name",
	"name":          "u.full_name",
	"email":         "u.email",
	"storyCount":    "story_count",
	"lastStoryDate": "last_story_date",
}

// UserRepository 用户仓储实现
type UserRepository struct {
	client *Client
}

// NewUserRepository 创建用户仓储
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Create")
	defer span.End()

	m := newUserModel(user)
	if err := getDB(ctx, r.client.db).Create(m).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID 根据 ID 获取用户
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByID")
	defer span.End()

	var m userModel
	if err := getDB(ctx, r.client.db).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return m.toEntity(), nil
}

// GetByEmail 根据邮箱获取用户，大小写不敏感
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByEmail")
	defer span.End()

	var m userModel
	if err := getDB(ctx, r.client.db).First(&m, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return m.toEntity(), nil
}

// Update 更新用户
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Update")
	defer span.End()

	user.UpdatedAt = time.Now()
	if err := getDB(ctx, r.client.db).Save(newUserModel(user)).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete 删除用户
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Delete")
	defer span.End()

	res := getDB(ctx, r.client.db).Delete(&userModel{}, "id = ?", id)
	if res.Error != nil {
		span.RecordError(res.Error)
		return false, fmt.Errorf("failed to delete user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ExistsByEmail 检查邮箱是否存在
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.ExistsByEmail")
	defer span.End()

	var count int64
	if err := getDB(ctx, r.client.db).Model(&userModel{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check email exists: %w", err)
	}
	return count > 0, nil
}

// userSummaryRow 用户列表查询行
type userSummaryRow struct {
	User          userModel `gorm:"embedded"`
	StoryCount    int64
	LastStoryDate *time.Time
}

// ListWithStats 分页查询用户，故事数与最近创作时间由左连接聚合得出
func (r *UserRepository) ListWithStats(ctx context.Context, filter repository.UserFilter, pagination repository.Pagination, sort repository.Sort) (*repository.PagedResult[*entity.UserSummary], error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.ListWithStats")
	defer span.End()

	db := getDB(ctx, r.client.db)
	base := db.Table("users AS u")
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + escapeLike(s) + "%"
		base = base.Where("u.full_name ILIKE ? OR u.email ILIKE ?", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var rows []userSummaryRow
	err := base.Session(&gorm.Session{}).
		Select("u.*, COUNT(s.id) AS story_count, MAX(s.created_at) AS last_story_date").
		Joins("LEFT JOIN stories AS s ON s.user_id = u.id").
		Group("u.id").
		Order(orderClause(sort, userSortColumns, "u.created_at")).
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Scan(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]*entity.UserSummary, 0, len(rows))
	for i := range rows {
		items = append(items, &entity.UserSummary{
			User:          *rows[i].User.toEntity(),
			StoryCount:    rows[i].StoryCount,
			LastStoryDate: rows[i].LastStoryDate,
		})
	}
	return repository.NewPagedResult(items, total, pagination), nil
}

// orderClause 白名单映射排序字段，未知字段回退到默认列
func orderClause(sort repository.Sort, columns map[string]string, fallback string) string {
	col, ok := columns[sort.Field]
	if !ok {
		col = fallback
	}
	order := repository.SortOrderDesc
	if sort.Order == repository.SortOrderAsc {
		order = repository.SortOrderAsc
	}
	return fmt.Sprintf("%s %s", col, order)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，用户输入按字面匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
