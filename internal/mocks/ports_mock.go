package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/service"
)

// MockEventPublisher 模拟 service.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

var _ service.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, event *entity.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

// MockFeedInvalidator 模拟公共故事流缓存失效
type MockFeedInvalidator struct {
	mock.Mock
}

func (m *MockFeedInvalidator) InvalidateFeed(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// InlineTransactor 直接执行回调，不开启真实事务
type InlineTransactor struct {
	Calls int
	// Err 非空时回调成功后仍返回该错误，模拟提交失败
	Err error
}

func (t *InlineTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return t.Err
}
