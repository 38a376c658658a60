package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Client struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

// NewS3Client uses static keys when configured and otherwise falls back to
// the default AWS credential chain (env, shared config, instance role).
func NewS3Client(ctx context.Context, cfg config.S3Config, publicBaseURL string) (*S3Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	if publicBaseURL == "" {
		switch {
		case cfg.Endpoint != "":
			publicBaseURL = fmt.Sprintf("%s/%s", cfg.Endpoint, cfg.Bucket)
		default:
			publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Client{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: publicBaseURL,
	}, nil
}

func (s *S3Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		logger.Error("s3_upload_failed", err, map[string]interface{}{
			"object_key":   key,
			"size":         size,
			"content_type": contentType,
			"bucket":       s.bucket,
		})
		return err
	}

	logger.Debug("s3_upload_success", map[string]interface{}{
		"object_key": key,
		"size":       size,
		"bucket":     s.bucket,
	})
	return nil
}

func (s *S3Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrObjectNotFound
		}
		logger.Error("s3_download_failed", err, map[string]interface{}{
			"object_key": key,
			"bucket":     s.bucket,
		})
		return nil, err
	}
	return out.Body, nil
}

func (s *S3Client) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error("s3_delete_failed", err, map[string]interface{}{
			"object_key": key,
			"bucket":     s.bucket,
		})
		return err
	}

	logger.Debug("s3_delete_success", map[string]interface{}{
		"object_key": key,
		"bucket":     s.bucket,
	})
	return nil
}

func (s *S3Client) PublicURL(key string) string {
	return joinURL(s.baseURL, key)
}

// EnsureBucket creates the bucket when missing and applies the public-read
// policy. Accounts with S3 Block Public Access enabled must allow bucket
// policies for this to succeed.
func (s *S3Client) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var notFound *types.NotFound
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed checking bucket %s: %w", s.bucket, err)
		}
		if err := s.createBucket(ctx); err != nil {
			return err
		}
	}

	policy, err := PublicReadPolicy(s.bucket)
	if err != nil {
		return err
	}
	if _, err := s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.bucket),
		Policy: aws.String(policy),
	}); err != nil {
		return fmt.Errorf("failed setting public-read policy on %s: %w", s.bucket, err)
	}
	return nil
}

func (s *S3Client) createBucket(ctx context.Context) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	// us-east-1 rejects an explicit location constraint.
	if s.region != "" && s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", s.bucket, err)
	}
	logger.Info("s3_bucket_created", map[string]interface{}{"bucket": s.bucket, "region": s.region})
	return nil
}
