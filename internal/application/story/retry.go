package story

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"kidz-story-api/internal/domain/language"
	apperrors "kidz-story-api/pkg/errors"
	"kidz-story-api/pkg/logger"
	"kidz-story-api/pkg/metrics"
)

// RetryPolicy 重试间隔配置
type RetryPolicy struct {
	// BaseDelay 第 n 次失败后等待 BaseDelay*n
	BaseDelay time.Duration
	// CheckDelay 语言校验未通过时两次生成之间的固定间隔
	CheckDelay time.Duration
}

// DefaultRetryPolicy 默认重试间隔
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		BaseDelay:  2 * time.Second,
		CheckDelay: 500 * time.Millisecond,
	}
}

// StatusCoder 携带上游 HTTP 状态码的错误
type StatusCoder interface {
	StatusCode() int
}

var nonRetryableMarkers = []string{
	"overloaded",
	"quota",
	"status code: 503",
}

// IsNonRetryable 上游过载或配额耗尽，重试只会继续消耗配额
func IsNonRetryable(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.IsCode(err, apperrors.CodeUpstreamOverloaded) {
		return true
	}
	var sc StatusCoder
	if errors.As(err, &sc) && sc.StatusCode() == http.StatusServiceUnavailable {
		return true
	}
	msg := err.Error()
	for _, m := range nonRetryableMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WithRetry 最多调用 fn retries 次，失败间隔线性增长；不可重试错误立即返回
func WithRetry[T any](ctx context.Context, policy RetryPolicy, retries int, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		// 缺少配置时重试没有意义
		if apperrors.IsCode(err, apperrors.CodeNotConfigured) {
			return zero, err
		}
		if IsNonRetryable(err) {
			if apperrors.IsCode(err, apperrors.CodeUpstreamOverloaded) {
				return zero, err
			}
			return zero, apperrors.NewOverloadedError(err)
		}
		if attempt == retries || ctx.Err() != nil {
			break
		}

		logger.Warn(ctx, "generation attempt failed, retrying",
			"attempt", attempt,
			"max_attempts", retries,
			"error", err.Error(),
		)
		if err := sleep(ctx, policy.BaseDelay*time.Duration(attempt)); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

// Checked 带语言校验结果的生成产物
type Checked[T any] struct {
	Value    T
	Verified bool
}

// GenerateWithLanguageCheck 生成并校验语言，不通过时重新生成，最多 maxRetries 次。
// 全部不通过时返回最后一次结果且 Verified 为 false；罗马乌尔都语只调用一次且不校验。
func GenerateWithLanguageCheck[T any](
	ctx context.Context,
	policy RetryPolicy,
	lang language.Language,
	maxRetries int,
	fn func(ctx context.Context) (T, error),
	extract func(T) string,
) (Checked[T], error) {
	kind := lang.Kind().String()

	if lang.SkipsVerification() {
		v, err := fn(ctx)
		if err != nil {
			return Checked[T]{}, err
		}
		metrics.LanguageCheckTotal.WithLabelValues(kind, "skipped").Inc()
		return Checked[T]{Value: v}, nil
	}

	if maxRetries < 1 {
		maxRetries = 1
	}

	var last T
	for attempt := 1; attempt <= maxRetries; attempt++ {
		v, err := fn(ctx)
		if err != nil {
			return Checked[T]{}, err
		}

		text := extract(v)
		if lang.IsCorrect(text) {
			metrics.LanguageCheckTotal.WithLabelValues(kind, "pass").Inc()
			return Checked[T]{Value: v, Verified: true}, nil
		}

		metrics.LanguageCheckTotal.WithLabelValues(kind, "fail").Inc()
		logger.Warn(ctx, "generated text not in requested language",
			"attempt", attempt,
			"language", lang.Name(),
			"preview", logger.Preview(text, 100),
		)
		last = v

		if attempt < maxRetries {
			if err := sleep(ctx, policy.CheckDelay); err != nil {
				return Checked[T]{}, err
			}
		}
	}

	logger.Warn(ctx, "all attempts failed language check, using last result",
		"attempts", maxRetries,
		"language", lang.Name(),
	)
	return Checked[T]{Value: last}, nil
}
