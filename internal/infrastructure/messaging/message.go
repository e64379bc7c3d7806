// Package messaging 提供基于 Redis Stream 的领域事件发布
package messaging

import (
	"encoding/json"
	"time"

	"kidz-story-api/internal/domain/entity"
)

// Message 流消息结构
type Message struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	AggregateID string            `json:"aggregate_id"`
	UserID      string            `json:"user_id,omitempty"`
	Payload     json.RawMessage   `json:"payload,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewMessage 由领域事件创建消息
func NewMessage(id string, event *entity.DomainEvent) (*Message, error) {
	var payload json.RawMessage
	if len(event.Payload) > 0 {
		b, err := json.Marshal(event.Payload)
		if err != nil {
			return nil, err
		}
		payload = b
	}

	createdAt := event.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &Message{
		ID:          id,
		Type:        string(event.Type),
		AggregateID: event.AggregateID,
		UserID:      event.UserID,
		Payload:     payload,
		CreatedAt:   createdAt,
	}, nil
}

// SetMetadata 设置元数据
func (m *Message) SetMetadata(key, value string) {
	if value == "" {
		return
	}
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
}

// UnmarshalPayload 解析消息载荷
func (m *Message) UnmarshalPayload(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// Stream 流定义
type Stream string

const (
	StreamStoryEvents Stream = "stream:story:events"
)
