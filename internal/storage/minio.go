package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOClient struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinIOClient(cfg config.MinIOConfig, publicBaseURL string) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	if publicBaseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.PublicEndpoint, cfg.Bucket)
	}

	return &MinIOClient{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL,
	}, nil
}

func (m *MinIOClient) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("minio_upload_failed", err, map[string]interface{}{
			"object_key":   key,
			"size":         size,
			"content_type": contentType,
			"bucket":       m.bucket,
		})
		return err
	}

	logger.Debug("minio_upload_success", map[string]interface{}{
		"object_key": key,
		"size":       size,
		"bucket":     m.bucket,
	})
	return nil
}

func (m *MinIOClient) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		logger.Error("minio_download_failed", err, map[string]interface{}{
			"object_key": key,
			"bucket":     m.bucket,
		})
		return nil, err
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller streams.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		logger.Error("minio_download_stat_failed", err, map[string]interface{}{
			"object_key": key,
			"bucket":     m.bucket,
		})
		return nil, err
	}
	return obj, nil
}

func (m *MinIOClient) Delete(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		logger.Error("minio_delete_failed", err, map[string]interface{}{
			"object_key": key,
			"bucket":     m.bucket,
		})
		return err
	}

	logger.Debug("minio_delete_success", map[string]interface{}{
		"object_key": key,
		"bucket":     m.bucket,
	})
	return nil
}

func (m *MinIOClient) PublicURL(key string) string {
	return joinURL(m.baseURL, key)
}

// EnsureBucket creates the bucket when missing and applies the public-read
// policy on every start, so an existing private bucket is opened up too.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed creating bucket %s: %w", m.bucket, err)
		}
		logger.Info("minio_bucket_created", map[string]interface{}{"bucket": m.bucket})
	}

	policy, err := PublicReadPolicy(m.bucket)
	if err != nil {
		return err
	}
	if err := m.client.SetBucketPolicy(ctx, m.bucket, policy); err != nil {
		return fmt.Errorf("failed setting public-read policy on %s: %w", m.bucket, err)
	}
	return nil
}
