package story

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
	apperrors "kidz-story-api/pkg/errors"
)

// memoryFeedCache 进程内缓存，仅用于测试
type memoryFeedCache struct {
	entries map[string][]byte
	loads   int
	err     error
}

func newMemoryFeedCache() *memoryFeedCache {
	return &memoryFeedCache{entries: map[string][]byte{}}
}

func (m *memoryFeedCache) GetOrLoadSafe(ctx context.Context, key string, _ time.Duration, loader func(ctx context.Context) (any, error)) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.entries[key]; ok {
		return v, nil
	}
	m.loads++
	data, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	m.entries[key] = b
	return b, nil
}

func (m *memoryFeedCache) InvalidatePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

func feedResult(p repository.Pagination, n int, total int64) *repository.PagedResult[*entity.Story] {
	items := make([]*entity.Story, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, &entity.Story{ID: "s" + string(rune('a'+i)), Title: "T"})
	}
	return repository.NewPagedResult(items, total, p)
}

func TestCatalog_ListFeed_DefaultsAndCaching(t *testing.T) {
	repo := &mockStoryRepo{}
	p := repository.Pagination{Page: 1, PageSize: DefaultFeedLimit}
	repo.On("ListRecent", mock.Anything, p).Return(feedResult(p, 6, 13), nil).Once()

	cache := newMemoryFeedCache()
	c := NewCatalog(repo, cache, 30*time.Second)

	page, err := c.ListFeed(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Stories, 6)
	assert.Equal(t, int64(13), page.Total)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)

	_, err = c.ListFeed(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.loads)
	repo.AssertExpectations(t)

	require.NoError(t, c.InvalidateFeed(context.Background()))
	assert.Empty(t, cache.entries)
}

func TestCatalog_ListFeed_CacheDownFallsBack(t *testing.T) {
	repo := &mockStoryRepo{}
	p := repository.Pagination{Page: 2, PageSize: 3}
	repo.On("ListRecent", mock.Anything, p).Return(feedResult(p, 1, 4), nil).Once()

	cache := newMemoryFeedCache()
	cache.err = errors.New("dial tcp: connection refused")

	page, err := NewCatalog(repo, cache, time.Minute).ListFeed(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
}

func TestCatalog_ListFeed_DatabaseError(t *testing.T) {
	repo := &mockStoryRepo{}
	repo.On("ListRecent", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := NewCatalog(repo, nil, 0).ListFeed(context.Background(), 1, 6)
	require.Error(t, err)
	assert.Equal(t, "Failed to get stories", apperrors.AsAppError(err).Message)
	assert.Equal(t, 500, apperrors.AsAppError(err).HTTPStatus)
}

func TestCatalog_GetStory(t *testing.T) {
	repo := &mockStoryRepo{}
	repo.On("GetByID", mock.Anything, "s1").Return(&entity.Story{ID: "s1"}, nil)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, nil)
	c := NewCatalog(repo, nil, 0)

	s, err := c.GetStory(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)

	_, err = c.GetStory(context.Background(), "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStoryNotFound))
}

func TestCatalog_ListByUser(t *testing.T) {
	repo := &mockStoryRepo{}
	repo.On("ListByUser", mock.Anything, "u1").Return(nil, nil)
	c := NewCatalog(repo, nil, 0)

	stories, err := c.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, stories)
	assert.Empty(t, stories)

	_, err = c.ListByUser(context.Background(), "")
	assert.Equal(t, 404, apperrors.AsAppError(err).HTTPStatus)
}
