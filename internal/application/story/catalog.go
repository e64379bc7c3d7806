package story

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
	apperrors "kidz-story-api/pkg/errors"
	"kidz-story-api/pkg/logger"
)

// DefaultFeedLimit 公共故事流默认每页条数
const DefaultFeedLimit = 6

const (
	feedKeyPrefix  = "stories:feed:"
	feedKeyPattern = feedKeyPrefix + "*"
)

// FeedCache 公共故事流缓存，由 infrastructure/persistence/redis 实现
type FeedCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (any, error)) ([]byte, error)
	InvalidatePattern(ctx context.Context, pattern string) error
}

// FeedPage 公共故事流的一页
type FeedPage struct {
	Stories     []*entity.Story `json:"data"`
	Total       int64           `json:"total"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
}

// Catalog 故事读取服务
type Catalog struct {
	stories repository.StoryRepository
	cache   FeedCache
	ttl     time.Duration
}

// NewCatalog 创建故事读取服务，cache 为空时不缓存
func NewCatalog(stories repository.StoryRepository, cache FeedCache, ttl time.Duration) *Catalog {
	return &Catalog{
		stories: stories,
		cache:   cache,
		ttl:     ttl,
	}
}

func feedKey(p repository.Pagination) string {
	return fmt.Sprintf("%s%d:%d", feedKeyPrefix, p.Page, p.PageSize)
}

// ListFeed 按创建时间倒序分页读取全部故事
func (c *Catalog) ListFeed(ctx context.Context, page, limit int) (*FeedPage, error) {
	if limit < 1 {
		limit = DefaultFeedLimit
	}
	p := repository.NewPagination(page, limit)

	if c.cache == nil || c.ttl <= 0 {
		return c.loadFeed(ctx, p)
	}

	raw, err := c.cache.GetOrLoadSafe(ctx, feedKey(p), c.ttl, func(ctx context.Context) (any, error) {
		return c.loadFeed(ctx, p)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		logger.Warn(ctx, "feed cache unavailable, reading from database", "error", err.Error())
		return c.loadFeed(ctx, p)
	}

	var out FeedPage
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Warn(ctx, "corrupt feed cache entry", "key", feedKey(p), "error", err.Error())
		return c.loadFeed(ctx, p)
	}
	return &out, nil
}

func (c *Catalog) loadFeed(ctx context.Context, p repository.Pagination) (*FeedPage, error) {
	res, err := c.stories.ListRecent(ctx, p)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "Failed to get stories")
	}
	return &FeedPage{
		Stories:     res.Items,
		Total:       res.Total,
		CurrentPage: res.Page,
		TotalPages:  res.TotalPages,
	}, nil
}

// GetStory 读取单个故事
func (c *Catalog) GetStory(ctx context.Context, id string) (*entity.Story, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.ErrStoryNotFound
	}
	s, err := c.stories.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "Failed to retrieve story")
	}
	if s == nil {
		return nil, apperrors.ErrStoryNotFound
	}
	return s, nil
}

// ListByUser 读取用户全部故事，按创建时间倒序
func (c *Catalog) ListByUser(ctx context.Context, userID string) ([]*entity.Story, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.New(apperrors.CodeNotFound, "stories not found")
	}
	stories, err := c.stories.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "Failed to retrieve story")
	}
	if stories == nil {
		stories = []*entity.Story{}
	}
	return stories, nil
}

// InvalidateFeed 清除公共故事流缓存
func (c *Catalog) InvalidateFeed(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.InvalidatePattern(ctx, feedKeyPattern)
}
