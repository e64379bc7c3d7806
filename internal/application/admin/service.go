// Package admin 实现管理后台：统计、用户与故事管理、配置查看
package admin

import (
	"context"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"kidz-story-api/internal/config"
	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
	"kidz-story-api/internal/domain/service"
	apperrors "kidz-story-api/pkg/errors"
	"kidz-story-api/pkg/logger"
)

// 统计参数
const (
	DefaultStatsPeriod = 30
	TopUsersLimit      = 10
)

// 列表默认排序
const (
	DefaultSortField = "createdAt"
	DefaultSortOrder = "desc"
)

// FeedInvalidator 删除故事后失效公共列表缓存
type FeedInvalidator interface {
	InvalidateFeed(ctx context.Context) error
}

// Service 管理后台服务
type Service struct {
	users   repository.UserRepository
	stories repository.StoryRepository
	stats   repository.StatsRepository
	tx      repository.Transactor
	events  service.EventPublisher
	feed    FeedInvalidator
	cfg     *config.Config
	now     func() time.Time
}

// NewService 创建管理后台服务
func NewService(
	users repository.UserRepository,
	stories repository.StoryRepository,
	stats repository.StatsRepository,
	tx repository.Transactor,
	events service.EventPublisher,
	feed FeedInvalidator,
	cfg *config.Config,
) *Service {
	if events == nil {
		events = service.NopPublisher{}
	}
	return &Service{
		users:   users,
		stories: stories,
		stats:   stats,
		tx:      tx,
		events:  events,
		feed:    feed,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Stats 统计最近 periodDays 天的数据，与之前同样长度的区间比较增长率
func (s *Service) Stats(ctx context.Context, periodDays int) (*entity.DashboardStats, error) {
	if periodDays <= 0 {
		periodDays = DefaultStatsPeriod
	}
	now := s.now()
	start := now.AddDate(0, 0, -periodDays)
	prevStart := start.AddDate(0, 0, -periodDays)

	var (
		out                    entity.DashboardStats
		prevUsers, prevStories int64
	)
	recent := repository.TimeRange{From: start}
	previous := repository.TimeRange{From: prevStart, To: start}

	eg, egCtx := errgroup.WithContext(ctx)
	count := func(dst *int64, fn func(context.Context, repository.TimeRange) (int64, error), r repository.TimeRange) {
		eg.Go(func() error {
			n, err := fn(egCtx, r)
			*dst = n
			return err
		})
	}
	group := func(dst *[]entity.CountBucket, field repository.StoryGroupField) {
		eg.Go(func() error {
			b, err := s.stats.GroupStories(egCtx, field)
			*dst = b
			return err
		})
	}

	count(&out.Overview.TotalUsers, s.stats.CountUsers, repository.TimeRange{})
	count(&out.Overview.TotalStories, s.stats.CountStories, repository.TimeRange{})
	count(&out.Overview.RecentUsers, s.stats.CountUsers, recent)
	count(&out.Overview.RecentStories, s.stats.CountStories, recent)
	count(&prevUsers, s.stats.CountUsers, previous)
	count(&prevStories, s.stats.CountStories, previous)

	group(&out.Charts.StoriesByLanguage, repository.GroupByLanguage)
	group(&out.Charts.StoriesByAgeGroup, repository.GroupByAgeGroup)
	group(&out.Charts.StoriesByTheme, repository.GroupByTheme)
	group(&out.Charts.StoriesByMood, repository.GroupByMood)

	eg.Go(func() error {
		d, err := s.stats.DailyStories(egCtx, start)
		out.Charts.DailyStats = d
		return err
	})
	eg.Go(func() error {
		u, err := s.stats.TopUsers(egCtx, TopUsersLimit)
		out.TopUsers = u
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "Failed to fetch admin statistics")
	}

	if out.Overview.TotalUsers > 0 {
		out.Overview.AvgStoriesPerUser = round2(float64(out.Overview.TotalStories) / float64(out.Overview.TotalUsers))
	}
	out.Overview.UserGrowthRate = growthRate(out.Overview.RecentUsers, prevUsers)
	out.Overview.StoryGrowthRate = growthRate(out.Overview.RecentStories, prevStories)
	out.Period = periodDays
	normalizeCharts(&out)

	return &out, nil
}

func growthRate(current, previous int64) float64 {
	if previous <= 0 {
		return 0
	}
	return round2(float64(current-previous) / float64(previous) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func normalizeCharts(d *entity.DashboardStats) {
	if d.Charts.StoriesByLanguage == nil {
		d.Charts.StoriesByLanguage = []entity.CountBucket{}
	}
	if d.Charts.StoriesByAgeGroup == nil {
		d.Charts.StoriesByAgeGroup = []entity.CountBucket{}
	}
	if d.Charts.StoriesByTheme == nil {
		d.Charts.StoriesByTheme = []entity.CountBucket{}
	}
	if d.Charts.StoriesByMood == nil {
		d.Charts.StoriesByMood = []entity.CountBucket{}
	}
	if d.Charts.DailyStats == nil {
		d.Charts.DailyStats = []entity.DailyCount{}
	}
	if d.TopUsers == nil {
		d.TopUsers = []entity.TopUser{}
	}
}

// ListQuery 列表查询参数
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	Language  string
	AgeGroup  string
	SortBy    string
	SortOrder string
}

func (q ListQuery) pagination() repository.Pagination {
	return repository.NewPagination(q.Page, q.Limit)
}

func (q ListQuery) sort() repository.Sort {
	field := q.SortBy
	if field == "" {
		field = DefaultSortField
	}
	order := q.SortOrder
	if order == "" {
		order = DefaultSortOrder
	}
	return repository.NewSort(field, order)
}

// ListUsers 分页查询用户及其故事统计
func (s *Service) ListUsers(ctx context.Context, q ListQuery) (*repository.PagedResult[*entity.UserSummary], error) {
	res, err := s.users.ListWithStats(ctx, repository.UserFilter{Search: strings.TrimSpace(q.Search)}, q.pagination(), q.sort())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "Failed to fetch users")
	}
	return res, nil
}

// ListStories 分页查询故事及作者
func (s *Service) ListStories(ctx context.Context, q ListQuery) (*repository.PagedResult[*entity.StoryListing], error) {
	filter := repository.StoryFilter{
		Search:   strings.TrimSpace(q.Search),
		Language: strings.TrimSpace(q.Language),
		AgeGroup: strings.TrimSpace(q.AgeGroup),
	}
	res, err := s.stories.Search(ctx, filter, q.pagination(), q.sort())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "Failed to fetch stories")
	}
	return res, nil
}

// DeleteUser 在同一事务中删除用户及其全部故事
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "User ID is required")
	}

	var removed int64
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.stories.DeleteByUser(txCtx, userID)
		if err != nil {
			return err
		}
		removed = n

		found, err := s.users.Delete(txCtx, userID)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "Failed to delete user")
	}

	logger.Info(ctx, "user deleted by admin", "deleted_user_id", userID, "stories_removed", removed)
	if removed > 0 {
		s.invalidateFeed(ctx)
	}
	s.publish(ctx, &entity.DomainEvent{
		Type:        entity.EventUserDeleted,
		AggregateID: userID,
		UserID:      userID,
		Payload:     map[string]any{"stories_removed": removed},
		OccurredAt:  s.now(),
	})
	return nil
}

// DeleteStory 删除单个故事
func (s *Service) DeleteStory(ctx context.Context, storyID string) error {
	if strings.TrimSpace(storyID) == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "Story ID is required")
	}

	found, err := s.stories.Delete(ctx, storyID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "Failed to delete story")
	}
	if !found {
		return apperrors.ErrStoryNotFound
	}

	logger.Info(ctx, "story deleted by admin", "deleted_story_id", storyID)
	s.invalidateFeed(ctx)
	s.publish(ctx, &entity.DomainEvent{
		Type:        entity.EventStoryDeleted,
		AggregateID: storyID,
		OccurredAt:  s.now(),
	})
	return nil
}

func (s *Service) invalidateFeed(ctx context.Context) {
	if s.feed == nil {
		return
	}
	if err := s.feed.InvalidateFeed(ctx); err != nil {
		logger.Warn(ctx, "failed to invalidate story feed cache", "error", err.Error())
	}
}

func (s *Service) publish(ctx context.Context, event *entity.DomainEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish admin event", "error", err.Error(), "event", string(event.Type))
	}
}
