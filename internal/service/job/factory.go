package job

import (
	"context"
	"fmt"
	"os"

	cfg "github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/internal/agent"
	"github.com/feichai0017/pdftext/internal/utils/validator"
	"github.com/feichai0017/pdftext/pkg/logger"
	"github.com/feichai0017/pdftext/pkg/queue"
	"github.com/feichai0017/pdftext/pkg/storage"
	"github.com/feichai0017/pdftext/pkg/store"
)

// GetService wires a Service from the application config: temp directory,
// job store, extraction pipeline, cloud publisher and, when enabled, the
// background queue.
func GetService(ctx context.Context, c *cfg.Config, log logger.Logger) (*Service, error) {
	if err := os.MkdirAll(c.Files.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	st, err := store.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize job store: %w", err)
	}

	pipeline, err := agent.NewPipeline(ctx, c, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	cloud, err := storage.NewStorage(ctx, c, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	opts := []Option{WithPublisher(storage.NewPublisher(cloud, c.Cloud.PresignExpiry, log))}
	if c.Queue.Enabled {
		opts = append(opts, WithQueue(queue.NewAsynqQueue(c)))
	}

	log.Info("Job service ready",
		logger.String("tempDir", c.Files.TempDir),
		logger.String("store", c.Store.Backend),
		logger.String("cloud", c.Cloud.Backend),
		logger.Bool("async", c.Queue.Enabled),
	)
	return NewService(pipeline, st, validator.NewUploadValidator(log, c.Files.MaxUploadSize), c.Files.TempDir, log, opts...), nil
}
