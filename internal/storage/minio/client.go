package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/authcore/internal/config"
	"github.com/dtroode/authcore/internal/model"
)

// minioAPI is the subset of *minio.Client the storage uses.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

var _ model.ObjectStorage = (*Client)(nil)

// Client stores objects in a single bucket.
type Client struct {
	api    minioAPI
	bucket string
}

// Connect dials the endpoint from cfg and prepares the bucket.
func Connect(ctx context.Context, cfg config.Storage) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return NewClient(ctx, mc, cfg.Bucket)
}

// NewClient wraps a real *minio.Client.
func NewClient(ctx context.Context, client *minio.Client, bucket string) (*Client, error) {
	return NewClientWithAPI(ctx, client, bucket)
}

// NewClientWithAPI allows injecting a fake API in tests.
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket string) (*Client, error) {
	c := &Client{
		api:    api,
		bucket: bucket,
	}

	if err := c.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload stores reader under key. size may be -1 when unknown.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := c.api.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}
