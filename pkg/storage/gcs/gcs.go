package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	cfg "github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/pkg/logger"
)

type GCSStorage struct {
	client     *storage.Client
	bucket     *storage.BucketHandle
	bucketName string
	accessID   string
	privateKey []byte
	logger     logger.Logger
}

func NewGCSStorage(ctx context.Context, c cfg.GCSConfig, log logger.Logger) (*GCSStorage, error) {
	if c.BucketName == "" {
		return nil, errors.New("gcs bucket name must be provided")
	}

	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	var privateKey []byte
	if c.PrivateKeyFile != "" {
		privateKey, err = os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to read signing key: %w", err)
		}
	}

	bucket := client.Bucket(c.BucketName)
	if _, err := bucket.Attrs(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to verify bucket existence: %w", err)
	}

	return &GCSStorage{
		client:     client,
		bucket:     bucket,
		bucketName: c.BucketName,
		accessID:   c.GoogleAccessID,
		privateKey: privateKey,
		logger:     log.Named("gcs"),
	}, nil
}

func (g *GCSStorage) Name() string { return "gcs" }

func (g *GCSStorage) Put(ctx context.Context, objectName string, r io.Reader, size int64) error {
	w := g.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = "text/plain; charset=utf-8"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write %s to GCS: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS write for %s: %w", objectName, err)
	}
	return nil
}

// Presign signs with the configured key, or lets the client detect signing
// credentials when none is configured.
func (g *GCSStorage) Presign(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	}
	if g.accessID != "" {
		opts.GoogleAccessID = g.accessID
	}
	if len(g.privateKey) > 0 {
		opts.PrivateKey = g.privateKey
	}

	u, err := g.bucket.SignedURL(objectName, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", objectName, err)
	}
	return u, nil
}

func (g *GCSStorage) Close() error {
	return g.client.Close()
}
