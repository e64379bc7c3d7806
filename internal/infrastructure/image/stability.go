// Package image 调用托管扩散模型生成故事插图，并交给对象存储发布
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"kidz-story-api/internal/config"
	apperrors "kidz-story-api/pkg/errors"
	"kidz-story-api/pkg/logger"
)

// 默认生成参数
const (
	DefaultAspectRatio  = "1:1"
	DefaultOutputFormat = "jpeg"
	DefaultModel        = "sd3.5-large-turbo"

	maxErrorBody = 4 << 10
)

// ErrNotConfigured 未配置 API Key
var ErrNotConfigured = apperrors.New(apperrors.CodeNotConfigured, "STABILITY_API_KEY is not set")

// APIError 扩散模型接口返回非 2xx
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Stability API Error: %d - %s", e.Status, e.Body)
}

// StatusCode 上游 HTTP 状态码
func (e *APIError) StatusCode() int { return e.Status }

// StabilityClient Stability 图像生成客户端
type StabilityClient struct {
	endpoint     string
	apiKey       string
	model        string
	aspectRatio  string
	outputFormat string
	httpClient   *http.Client
}

// NewStabilityClient 创建客户端，未设置的参数使用默认值
func NewStabilityClient(cfg *config.ImageConfig) *StabilityClient {
	c := &StabilityClient{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		aspectRatio:  cfg.AspectRatio,
		outputFormat: cfg.OutputFormat,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.aspectRatio == "" {
		c.aspectRatio = DefaultAspectRatio
	}
	if c.outputFormat == "" {
		c.outputFormat = DefaultOutputFormat
	}
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = 60 * time.Second
	}
	return c
}

// OutputFormat 生成图片的格式，同时用作上传文件扩展名
func (c *StabilityClient) OutputFormat() string { return c.outputFormat }

// Generate 根据提示词生成一张图片，返回原始字节
func (c *StabilityClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	body, contentType, err := c.form(prompt)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "image/*")
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Status: resp.StatusCode, Body: string(msg)}
		logger.Error(ctx, "stability api returned non-2xx status", apiErr,
			"status", resp.StatusCode,
		)
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("stability api returned empty image")
	}
	return data, nil
}

func (c *StabilityClient) form(prompt string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := [][2]string{
		{"prompt", prompt},
		{"aspect_ratio", c.aspectRatio},
		{"output_format", c.outputFormat},
		{"model", c.model},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to build form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
