package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
)

// MockStatsRepository 模拟 repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

var _ repository.StatsRepository = (*MockStatsRepository)(nil)

// NewMockStatsRepository 创建模拟仓储并绑定测试
func NewMockStatsRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStatsRepository {
	m := &MockStatsRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

func (m *MockStatsRepository) CountUsers(ctx context.Context, r repository.TimeRange) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountStories(ctx context.Context, r repository.TimeRange) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) GroupStories(ctx context.Context, field repository.StoryGroupField) ([]entity.CountBucket, error) {
	args := m.Called(ctx, field)
	if b := args.Get(0); b != nil {
		return b.([]entity.CountBucket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStatsRepository) DailyStories(ctx context.Context, since time.Time) ([]entity.DailyCount, error) {
	args := m.Called(ctx, since)
	if d := args.Get(0); d != nil {
		return d.([]entity.DailyCount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStatsRepository) TopUsers(ctx context.Context, limit int) ([]entity.TopUser, error) {
	args := m.Called(ctx, limit)
	if u := args.Get(0); u != nil {
		return u.([]entity.TopUser), args.Error(1)
	}
	return nil, args.Error(1)
}
