package repository

import (
	"context"
	"time"

	"kidz-story-api/internal/domain/entity"
)

// TimeRange 左闭右开的时间区间，零值端点表示不限
type TimeRange struct {
	From time.Time
	To   time.Time
}

// StoryGroupField 可分组统计的故事字段
type StoryGroupField string

const (
	GroupByLanguage StoryGroupField = "language"
	GroupByAgeGroup StoryGroupField = "age_group"
	GroupByTheme    StoryGroupField = "theme"
	GroupByMood     StoryGroupField = "mood"
)

// StatsRepository 管理后台统计查询
type StatsRepository interface {
	// CountUsers 统计区间内注册的用户数
	CountUsers(ctx context.Context, r TimeRange) (int64, error)

	// CountStories 统计区间内创建的故事数
	CountStories(ctx context.Context, r TimeRange) (int64, error)

	// GroupStories 按字段分组计数，按数量倒序
	GroupStories(ctx context.Context, field StoryGroupField) ([]entity.CountBucket, error)

	// DailyStories 自 since 起每日故事数，按日期升序
	DailyStories(ctx context.Context, since time.Time) ([]entity.DailyCount, error)

	// TopUsers 故事数最多的用户
	TopUsers(ctx context.Context, limit int) ([]entity.TopUser, error)
}
