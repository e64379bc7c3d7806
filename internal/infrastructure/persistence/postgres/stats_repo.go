package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
)

// groupExpressions 分组统计表达式；年龄段、主题、情绪可能是逗号拼接的多值，拆开后分别计数
var groupExpressions = map[repository.StoryGroupField]string{
	repository.GroupByLanguage: "language",
	repository.GroupByAgeGroup: "unnest(string_to_array(age_group, ', '))",
	repository.GroupByTheme:    "unnest(string_to_array(theme, ', '))",
	repository.GroupByMood:     "unnest(string_to_array(mood, ', '))",
}

// StatsRepository 管理后台统计查询
type StatsRepository struct {
	client *Client
}

// NewStatsRepository 创建统计仓储
func NewStatsRepository(client *Client) *StatsRepository {
	return &StatsRepository{client: client}
}

func withRange(db *gorm.DB, column string, r repository.TimeRange) *gorm.DB {
	if !r.From.IsZero() {
		db = db.Where(column+" >= ?", r.From)
	}
	if !r.To.IsZero() {
		db = db.Where(column+" < ?", r.To)
	}
	return db
}

// CountUsers 统计区间内注册的用户数
func (r *StatsRepository) CountUsers(ctx context.Context, tr repository.TimeRange) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.StatsRepository.CountUsers")
	defer span.End()

	var n int64
	if err := withRange(getDB(ctx, r.client.db).Model(&userModel{}), "created_at", tr).Count(&n).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// CountStories 统计区间内创建的故事数
func (r *StatsRepository) CountStories(ctx context.Context, tr repository.TimeRange) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.StatsRepository.CountStories")
	defer span.End()

	var n int64
	if err := withRange(getDB(ctx, r.client.db).Model(&storyModel{}), "created_at", tr).Count(&n).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count stories: %w", err)
	}
	return n, nil
}

// GroupStories 按字段分组计数
func (r *StatsRepository) GroupStories(ctx context.Context, field repository.StoryGroupField) ([]entity.CountBucket, error) {
	ctx, span := tracer.Start(ctx, "postgres.StatsRepository.GroupStories")
	defer span.End()

	expr, ok := groupExpressions[field]
	if !ok {
		return nil, fmt.Errorf("unsupported group field: %s", field)
	}

	query := fmt.Sprintf(
		"SELECT k AS key, COUNT(*) AS count FROM (SELECT %s AS k FROM stories) AS g WHERE k <> '' GROUP BY k ORDER BY count DESC, k ASC",
		expr,
	)
	var out []entity.CountBucket
	if err := getDB(ctx, r.client.db).Raw(query).Scan(&out).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to group stories by %s: %w", field, err)
	}
	return out, nil
}

// DailyStories 自 since 起每日故事数，日期按 UTC
func (r *StatsRepository) DailyStories(ctx context.Context, since time.Time) ([]entity.DailyCount, error) {
	ctx, span := tracer.Start(ctx, "postgres.StatsRepository.DailyStories")
	defer span.End()

	var out []entity.DailyCount
	err := getDB(ctx, r.client.db).Raw(`
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date, COUNT(*) AS stories
		FROM stories
		WHERE created_at >= ?
		GROUP BY 1
		ORDER BY 1`, since).Scan(&out).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count daily stories: %w", err)
	}
	return out, nil
}

// TopUsers 故事数最多的用户，已删除的用户不计入
func (r *StatsRepository) TopUsers(ctx context.Context, limit int) ([]entity.TopUser, error) {
	ctx, span := tracer.Start(ctx, "postgres.StatsRepository.TopUsers")
	defer span.End()

	var out []entity.TopUser
	err := getDB(ctx, r.client.db).Raw(`
		SELECT s.user_id, COUNT(*) AS story_count, u.full_name AS user_name, u.email AS user_email
		FROM stories AS s
		JOIN users AS u ON u.id = s.user_id
		GROUP BY s.user_id, u.full_name, u.email
		ORDER BY story_count DESC
		LIMIT ?`, limit).Scan(&out).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load top users: %w", err)
	}
	return out, nil
}
