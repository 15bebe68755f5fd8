package storage

import (
	"context"
	"fmt"

	cfg "github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/pkg/logger"
	"github.com/feichai0017/pdftext/pkg/storage/gcs"
	"github.com/feichai0017/pdftext/pkg/storage/minio"
	"github.com/feichai0017/pdftext/pkg/storage/s3"
)

// NewStorage returns nil for the "none" backend.
func NewStorage(ctx context.Context, c *cfg.Config, log logger.Logger) (Storage, error) {
	var (
		backend Backend
		err     error
	)
	switch StorageType(c.Cloud.Backend) {
	case StorageTypeNone, "":
		return nil, nil
	case StorageTypeS3:
		backend, err = s3.NewS3Storage(ctx, c.S3, log)
	case StorageTypeMinio:
		backend, err = minio.NewMinioStorage(ctx, c.Minio, log)
	case StorageTypeGCS:
		backend, err = gcs.NewGCSStorage(ctx, c.GCS, log)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, c.Cloud.Backend)
	}
	if err != nil {
		return nil, err
	}
	return NewObjectStorage(backend, log), nil
}
