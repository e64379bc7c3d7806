package entity

import "time"

// DomainEventType 领域事件类型
type DomainEventType string

const (
	EventStoryCreated DomainEventType = "story.created"
	EventStoryDeleted DomainEventType = "story.deleted"
	EventUserDeleted  DomainEventType = "user.deleted"
)

// DomainEvent 对外发布的领域事件
type DomainEvent struct {
	Type        DomainEventType `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	UserID      string          `json:"user_id,omitempty"`
	Payload     map[string]any  `json:"payload,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
