package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/pkg/logger"
	"kidz-story-api/pkg/metrics"
	"kidz-story-api/pkg/tracer"
)

var otelTracer = otel.Tracer("messaging")

// Producer 消息生产者，实现 service.EventPublisher
type Producer struct {
	client *redis.Client
	stream Stream
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		stream: StreamStoryEvents,
		maxLen: maxLen,
	}
}

// Publish 将领域事件写入故事事件流
func (p *Producer) Publish(ctx context.Context, event *entity.DomainEvent) error {
	msg, err := NewMessage(uuid.NewString(), event)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}
	msg.SetMetadata("request_id", requestID(ctx))
	msg.SetMetadata("trace_id", tracer.TraceID(ctx))

	_, err = p.PublishMessage(ctx, p.stream, msg)
	return err
}

// PublishMessage 发布消息到指定流
func (p *Producer) PublishMessage(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := otelTracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"type": msg.Type,
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		metrics.RedisStreamPublished.WithLabelValues(string(stream), "failed").Inc()
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	metrics.RedisStreamPublished.WithLabelValues(string(stream), "success").Inc()
	span.SetAttributes(attribute.String("stream.message_id", result))
	logger.Debug(ctx, "event published", "stream", string(stream), "type", msg.Type, "stream_id", result)
	return result, nil
}

func requestID(ctx context.Context) string {
	if v, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		return v
	}
	return ""
}
