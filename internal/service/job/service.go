package job

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/feichai0017/pdftext/internal/agent"
	"github.com/feichai0017/pdftext/internal/models"
)

var (
	// ErrOriginalNotFound means the uploaded PDF of a job is gone from disk.
	ErrOriginalNotFound = errors.New("original pdf not found")
	// ErrJobNotReady means the job has no extracted text yet.
	ErrJobNotReady = errors.New("job not ready")
	// ErrAsyncDisabled is returned by Submit when no queue is configured.
	ErrAsyncDisabled = errors.New("async extraction disabled")
)

// JobProcessor is the job lifecycle as seen by the HTTP layer and the worker.
type JobProcessor interface {
	// Create validates and stores an upload, extracts it synchronously and
	// records a completed job. No job is recorded when extraction fails.
	Create(ctx context.Context, header *multipart.FileHeader) (*models.Job, error)
	// Submit stores an upload and queues it for background extraction.
	Submit(ctx context.Context, header *multipart.FileHeader) (*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	Text(ctx context.Context, id string) (string, error)
	TextPath(ctx context.Context, id string) (string, error)
	// Redo re-extracts the original PDF and overwrites the text in place.
	Redo(ctx context.Context, id string) (*models.Job, error)
	// HandleExtraction runs a queued job.
	HandleExtraction(ctx context.Context, id string) error
	CloudLink(ctx context.Context, job *models.Job) string
}

// Extractor turns a PDF on disk into text.
type Extractor interface {
	Extract(ctx context.Context, path string) (*agent.Result, error)
}

// Enqueuer hands a job id to the background queue.
type Enqueuer interface {
	EnqueueExtraction(ctx context.Context, jobID string) (string, error)
}
