package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	cfg "github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/pkg/logger"
)

type MinioStorage struct {
	client     *minio.Client
	bucketName string
	logger     logger.Logger
}

func NewMinioStorage(ctx context.Context, c cfg.MinioConfig, log logger.Logger) (*MinioStorage, error) {
	if c.Endpoint == "" || c.BucketName == "" {
		return nil, errors.New("minio endpoint and bucket name must be provided")
	}

	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
		Region: c.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, c.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, c.BucketName, minio.MakeBucketOptions{
			Region: c.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Info("Created MinIO bucket", logger.String("bucket", c.BucketName))
	}

	return &MinioStorage{
		client:     client,
		bucketName: c.BucketName,
		logger:     log.Named("minio"),
	}, nil
}

func (m *MinioStorage) Name() string { return "minio" }

func (m *MinioStorage) Put(ctx context.Context, objectName string, r io.Reader, size int64) error {
	_, err := m.client.PutObject(ctx, m.bucketName, objectName, r, size, minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("failed to store %s in bucket %s: %w", objectName, m.bucketName, err)
	}
	return nil
}

func (m *MinioStorage) Presign(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucketName, objectName, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", objectName, err)
	}
	return u.String(), nil
}
