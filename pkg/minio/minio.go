package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type implStorage struct {
	client *minio.Client
	config Config
}

// NewObjectStorage creates a MinIO-backed ObjectStorage.
func NewObjectStorage(cfg Config) (ObjectStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &implStorage{client: client, config: cfg}, nil
}

func (s *implStorage) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.config.Region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *implStorage) Upload(ctx context.Context, req UploadRequest) (*ObjectInfo, error) {
	info, err := s.client.PutObject(ctx, req.Bucket, req.Object, req.Reader, req.Size, minio.PutObjectOptions{
		ContentType:  req.ContentType,
		UserMetadata: req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s/%s: %w", req.Bucket, req.Object, err)
	}

	return &ObjectInfo{
		Bucket:      info.Bucket,
		Object:      info.Key,
		Size:        info.Size,
		ContentType: req.ContentType,
		ETag:        info.ETag,
		Metadata:    req.Metadata,
	}, nil
}

func (s *implStorage) Download(ctx context.Context, bucket, object string) (io.ReadCloser, *ObjectInfo, error) {
	obj, err := s.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s/%s: %w", bucket, object, err)
	}

	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, nil, fmt.Errorf("failed to stat %s/%s: %w", bucket, object, err)
	}

	return obj, objectInfoFromStat(bucket, stat), nil
}

func (s *implStorage) Stat(ctx context.Context, bucket, object string) (*ObjectInfo, error) {
	stat, err := s.client.StatObject(ctx, bucket, object, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s/%s: %w", bucket, object, err)
	}
	return objectInfoFromStat(bucket, stat), nil
}

func (s *implStorage) Delete(ctx context.Context, bucket, object string) error {
	if err := s.client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", bucket, object, err)
	}
	return nil
}

func (s *implStorage) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListBuckets(ctx); err != nil {
		return fmt.Errorf("minio health check failed: %w", err)
	}
	return nil
}

func objectInfoFromStat(bucket string, stat minio.ObjectInfo) *ObjectInfo {
	return &ObjectInfo{
		Bucket:       bucket,
		Object:       stat.Key,
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
		Metadata:     stat.UserMetadata,
	}
}
