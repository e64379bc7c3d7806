package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
)

// storySortColumns 管理后台故事列表可排序字段
var storySortColumns = map[string]string{
	"createdAt": "s.created_at",
	"updatedAt": "s.updated_at",
	"title":     "s.title",
	"language":  "s.language",
	"ageGroup":  "s.age_group",
}

// StoryRepository 故事仓储实现
type StoryRepository struct {
	client *Client
}

// NewStoryRepository 创建故事仓储
func NewStoryRepository(client *Client) *StoryRepository {
	return &StoryRepository{client: client}
}

// Create 保存故事
func (r *StoryRepository) Create(ctx context.Context, story *entity.Story) error {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.Create")
	defer span.End()

	m := newStoryModel(story)
	if err := getDB(ctx, r.client.db).Create(m).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create story: %w", err)
	}
	story.ID = m.ID
	story.CreatedAt = m.CreatedAt
	story.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID 根据 ID 获取故事
func (r *StoryRepository) GetByID(ctx context.Context, id string) (*entity.Story, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.GetByID")
	defer span.End()

	var m storyModel
	if err := getDB(ctx, r.client.db).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return m.toEntity(), nil
}

// ListRecent 公共故事流
func (r *StoryRepository) ListRecent(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.ListRecent")
	defer span.End()

	db := getDB(ctx, r.client.db)

	var total int64
	if err := db.Model(&storyModel{}).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count stories: %w", err)
	}

	var models []*storyModel
	if err := db.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&models).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	return repository.NewPagedResult(storiesToEntities(models), total, pagination), nil
}

// ListByUser 获取用户全部故事
func (r *StoryRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Story, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.ListByUser")
	defer span.End()

	var models []*storyModel
	if err := getDB(ctx, r.client.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list user stories: %w", err)
	}
	return storiesToEntities(models), nil
}

// storyListingRow 故事列表查询行
type storyListingRow struct {
	Story       storyModel `gorm:"embedded"`
	AuthorName  *string
	AuthorEmail *string
}

// Search 管理后台分页查询，作者信息来自左连接
func (r *StoryRepository) Search(ctx context.Context, filter repository.StoryFilter, pagination repository.Pagination, sort repository.Sort) (*repository.PagedResult[*entity.StoryListing], error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.Search")
	defer span.End()

	base := getDB(ctx, r.client.db).Table("stories AS s")
	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + escapeLike(q) + "%"
		base = base.Where(
			"s.title ILIKE ? OR s.story ILIKE ? OR array_to_string(s.favorite_things, ',') ILIKE ?",
			like, like, like,
		)
	}
	if filter.Language != "" {
		base = base.Where("s.language = ?", filter.Language)
	}
	if filter.AgeGroup != "" {
		base = base.Where("? = ANY(string_to_array(s.age_group, ', '))", filter.AgeGroup)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count stories: %w", err)
	}

	var rows []storyListingRow
	err := base.Session(&gorm.Session{}).
		Select("s.*, u.full_name AS author_name, u.email AS author_email").
		Joins("LEFT JOIN users AS u ON u.id = s.user_id").
		Order(orderClause(sort, storySortColumns, "s.created_at")).
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Scan(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search stories: %w", err)
	}

	items := make([]*entity.StoryListing, 0, len(rows))
	for i := range rows {
		item := &entity.StoryListing{Story: *rows[i].Story.toEntity()}
		if rows[i].AuthorName != nil {
			item.AuthorName = *rows[i].AuthorName
		}
		if rows[i].AuthorEmail != nil {
			item.AuthorEmail = *rows[i].AuthorEmail
		}
		items = append(items, item)
	}
	return repository.NewPagedResult(items, total, pagination), nil
}

// CountByUser 统计用户故事数
func (r *StoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.CountByUser")
	defer span.End()

	var count int64
	if err := getDB(ctx, r.client.db).Model(&storyModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count user stories: %w", err)
	}
	return count, nil
}

// LockUser 事务级咨询锁，同一用户的并发保存串行执行
func (r *StoryRepository) LockUser(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.LockUser")
	defer span.End()

	if getTxFromContext(ctx) == nil {
		return errors.New("LockUser must run inside a transaction")
	}
	if err := getDB(ctx, r.client.db).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", userID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to lock user: %w", err)
	}
	return nil
}

// Delete 删除故事
func (r *StoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.Delete")
	defer span.End()

	res := getDB(ctx, r.client.db).Delete(&storyModel{}, "id = ?", id)
	if res.Error != nil {
		span.RecordError(res.Error)
		return false, fmt.Errorf("failed to delete story: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteByUser 删除用户全部故事
func (r *StoryRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.DeleteByUser")
	defer span.End()

	res := getDB(ctx, r.client.db).Delete(&storyModel{}, "user_id = ?", userID)
	if res.Error != nil {
		span.RecordError(res.Error)
		return 0, fmt.Errorf("failed to delete user stories: %w", res.Error)
	}
	return res.RowsAffected, nil
}
