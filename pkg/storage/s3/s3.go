package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/pkg/logger"
)

// API is the part of the S3 client used for uploads.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Presigner signs GetObject requests.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Storage struct {
	client     API
	presigner  Presigner
	bucketName string
	logger     logger.Logger
}

func NewS3Storage(ctx context.Context, c cfg.S3Config, log logger.Logger) (*S3Storage, error) {
	if c.BucketName == "" {
		return nil, errors.New("s3 bucket name must be provided")
	}

	log.Info("S3 Configuration",
		logger.String("bucket", c.BucketName),
		logger.String("region", c.Region),
		logger.String("endpoint", c.Endpoint),
	)

	opts := []func(*config.LoadOptions) error{}
	if c.Region != "" {
		opts = append(opts, config.WithRegion(c.Region))
	}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.BucketName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify bucket existence: %w", err)
	}

	return NewS3StorageWithClient(client, s3.NewPresignClient(client), c.BucketName, log), nil
}

func NewS3StorageWithClient(client API, presigner Presigner, bucket string, log logger.Logger) *S3Storage {
	return &S3Storage{
		client:     client,
		presigner:  presigner,
		bucketName: bucket,
		logger:     log.Named("s3"),
	}
}

func (s *S3Storage) Name() string { return "s3" }

func (s *S3Storage) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("failed to store %s in bucket %s: %w", key, s.bucketName, err)
	}
	return nil
}

func (s *S3Storage) Presign(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}
