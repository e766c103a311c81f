package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/toteworks/mockup-renderer/internal/config"
)

// S3Client implements Uploader against any S3-compatible object store.
type S3Client struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
	now           func() time.Time
}

// NewS3Client connects to the object store described by cfg. The returned
// client is safe for concurrent use.
func NewS3Client(cfg *config.StorageConfig, logger *zap.Logger) (*S3Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &S3Client{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(baseURL, "/"),
		logger:        logger,
		now:           time.Now,
	}, nil
}

// Upload stores data under a timestamped key derived from suggestedName
// and returns the object's public URL.
func (c *S3Client) Upload(ctx context.Context, data []byte, suggestedName string) (string, error) {
	key := objectKey(suggestedName, c.now())

	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentTypeFor(suggestedName)})
	if err != nil {
		return "", fmt.Errorf("%w: putting %s: %v", ErrUploadFailed, key, err)
	}

	url := fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, key)

	c.logger.Debug("Uploaded object",
		zap.String("key", key),
		zap.Int("size", len(data)),
		zap.String("url", url))

	return url, nil
}

// contentTypeFor maps the suggested name's extension to a MIME type.
func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
