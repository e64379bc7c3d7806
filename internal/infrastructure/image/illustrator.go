package image

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kidz-story-api/pkg/logger"
)

// Generator 文生图
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Uploader 对象存储上传，返回公开地址
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// readiness 上传器可在生成前报告自身不可用，避免白白调用付费接口
type readiness interface {
	Ready() error
}

// Illustrator 生成插图并上传
type Illustrator struct {
	generator Generator
	uploader  Uploader
	format    string
	now       func() time.Time
}

// NewIllustrator 创建插图服务，format 为图片格式（如 jpeg）
func NewIllustrator(generator Generator, uploader Uploader, format string) *Illustrator {
	if format == "" {
		format = DefaultOutputFormat
	}
	return &Illustrator{
		generator: generator,
		uploader:  uploader,
		format:    format,
		now:       time.Now,
	}
}

// GenerateAndUpload 生成一张插图并上传，返回公开访问地址；指标由调用方在重试之后统计
func (i *Illustrator) GenerateAndUpload(ctx context.Context, prompt string) (string, error) {
	if r, ok := i.uploader.(readiness); ok {
		if err := r.Ready(); err != nil {
			return "", err
		}
	}

	start := time.Now()
	data, err := i.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	key := i.objectName()
	url, err := i.uploader.Upload(ctx, key, data, "image/"+i.format)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	logger.Info(ctx, "illustration uploaded",
		"key", key,
		"size_bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return url, nil
}

// objectName 毫秒时间戳加随机后缀，同一毫秒内的请求互不覆盖
func (i *Illustrator) objectName() string {
	return fmt.Sprintf("image_%d_%s.%s", i.now().UnixMilli(), uuid.NewString()[:8], i.format)
}
