// Package storage 提供 S3 兼容对象存储（Cloudflare R2）的图片上传
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"kidz-story-api/internal/config"
	apperrors "kidz-story-api/pkg/errors"
	"kidz-story-api/pkg/logger"
)

// DefaultFolder 插图存放目录
const DefaultFolder = "kidzTory_images"

// ErrNotConfigured 缺少 R2 凭证或存储桶
var ErrNotConfigured = apperrors.New(apperrors.CodeNotConfigured, "R2 storage credentials are not set")

// R2Uploader 基于 minio-go 的 R2 上传器
type R2Uploader struct {
	client    *minio.Client
	bucket    string
	folder    string
	publicURL string
}

// NewR2Uploader 创建上传器；凭证不完整时返回 ErrNotConfigured
func NewR2Uploader(cfg *config.R2Config) (*R2Uploader, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	endpoint, secure := cfg.Endpoint, cfg.UseSSL
	if endpoint == "" {
		if cfg.AccountID == "" {
			return nil, ErrNotConfigured
		}
		endpoint, secure = cfg.AccountID+".r2.cloudflarestorage.com", true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create r2 client: %w", err)
	}

	folder := strings.Trim(cfg.Folder, "/")
	if folder == "" {
		folder = DefaultFolder
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.Bucket)
	}

	return &R2Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		folder:    folder,
		publicURL: publicURL,
	}, nil
}

// ObjectKey 目录内的对象键
func (u *R2Uploader) ObjectKey(name string) string {
	return u.folder + "/" + strings.TrimLeft(name, "/")
}

// URL 对象的公开访问地址
func (u *R2Uploader) URL(objectKey string) string {
	return u.publicURL + "/" + (&url.URL{Path: objectKey}).EscapedPath()
}

// Upload 上传到插图目录，返回公开地址
func (u *R2Uploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := u.ObjectKey(name)
	info, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		logger.Error(ctx, "r2 upload failed", err,
			"bucket", u.bucket,
			"key", key,
		)
		return "", fmt.Errorf("r2 upload: %w", err)
	}

	logger.Debug(ctx, "r2 object stored",
		"bucket", u.bucket,
		"key", key,
		"etag", info.ETag,
	)
	return u.URL(key), nil
}

// HealthCheck 检查存储桶可访问
func (u *R2Uploader) HealthCheck(ctx context.Context) error {
	ok, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", u.bucket)
	}
	return nil
}

// Unavailable 存储未配置时的占位上传器，每次上传都返回原因
type Unavailable struct {
	Err error
}

// Ready 返回不可用原因
func (u Unavailable) Ready() error { return u.Err }

// Upload 始终失败
func (u Unavailable) Upload(context.Context, string, []byte, string) (string, error) {
	return "", u.Err
}
