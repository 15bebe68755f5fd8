// Package storage copies local result files to an object store and hands out
// time-limited download links for them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/feichai0017/pdftext/pkg/logger"
)

var (
	ErrUploadFailed       = errors.New("storage upload failed")
	ErrPresignFailed      = errors.New("presign failed")
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)

// DefaultPresignExpiry is how long a download link stays valid.
const DefaultPresignExpiry = time.Hour

type StorageType string

const (
	StorageTypeNone  StorageType = "none"
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
	StorageTypeGCS   StorageType = "gcs"
)

// Storage uploads local files and signs download URLs.
type Storage interface {
	// Upload stores the file at localPath under its basename and returns
	// that object name.
	Upload(ctx context.Context, localPath string) (string, error)
	PresignGet(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Backend is the provider specific part of a Storage.
type Backend interface {
	Name() string
	Put(ctx context.Context, objectName string, r io.Reader, size int64) error
	Presign(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// ObjectStorage adapts a Backend to Storage and classifies its errors.
type ObjectStorage struct {
	backend Backend
	logger  logger.Logger
}

func NewObjectStorage(backend Backend, log logger.Logger) *ObjectStorage {
	return &ObjectStorage{
		backend: backend,
		logger:  log.Named("storage").With(logger.String("backend", backend.Name())),
	}
}

func (s *ObjectStorage) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	objectName := filepath.Base(localPath)
	if err := s.backend.Put(ctx, objectName, f, info.Size()); err != nil {
		s.logger.Error("Failed to upload file",
			logger.String("path", localPath),
			logger.String("object", objectName),
			logger.Error(err),
		)
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	s.logger.Info("File uploaded",
		logger.String("object", objectName),
		logger.Int64("size", info.Size()),
	)
	return objectName, nil
}

func (s *ObjectStorage) PresignGet(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	url, err := s.backend.Presign(ctx, objectName, expiry)
	if err != nil {
		s.logger.Error("Failed to presign object",
			logger.String("object", objectName),
			logger.Error(err),
		)
		return "", fmt.Errorf("%w: %w", ErrPresignFailed, err)
	}
	return url, nil
}
