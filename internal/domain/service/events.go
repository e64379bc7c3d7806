package service

import (
	"context"

	"kidz-story-api/internal/domain/entity"
)

// EventPublisher 领域事件发布端口
type EventPublisher interface {
	Publish(ctx context.Context, event *entity.DomainEvent) error
}

// NopPublisher 未启用事件流时使用
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(context.Context, *entity.DomainEvent) error { return nil }
