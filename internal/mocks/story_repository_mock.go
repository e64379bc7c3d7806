// Package mocks 仓储与端口的 testify 模拟实现，供各层测试共用
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
)

// MockStoryRepository 模拟 repository.StoryRepository
type MockStoryRepository struct {
	mock.Mock
}

var _ repository.StoryRepository = (*MockStoryRepository)(nil)

// NewMockStoryRepository 创建模拟仓储并绑定测试
func NewMockStoryRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStoryRepository {
	m := &MockStoryRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

func (m *MockStoryRepository) Create(ctx context.Context, story *entity.Story) error {
	return m.Called(ctx, story).Error(0)
}

func (m *MockStoryRepository) GetByID(ctx context.Context, id string) (*entity.Story, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*entity.Story), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStoryRepository) ListRecent(ctx context.Context, p repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	args := m.Called(ctx, p)
	if r := args.Get(0); r != nil {
		return r.(*repository.PagedResult[*entity.Story]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStoryRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Story, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.([]*entity.Story), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStoryRepository) Search(ctx context.Context, f repository.StoryFilter, p repository.Pagination, s repository.Sort) (*repository.PagedResult[*entity.StoryListing], error) {
	args := m.Called(ctx, f, p, s)
	if r := args.Get(0); r != nil {
		return r.(*repository.PagedResult[*entity.StoryListing]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStoryRepository) LockUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockStoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoryRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
