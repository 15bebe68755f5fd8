package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/pdftext/internal/agent/document"
	"github.com/feichai0017/pdftext/pkg/logger"
	"github.com/feichai0017/pdftext/pkg/queue"
	"github.com/feichai0017/pdftext/pkg/store"
)

// JobHandler runs one queued job.
type JobHandler interface {
	HandleExtraction(ctx context.Context, id string) error
}

type ExtractWorker struct {
	BaseWorker
	jobs JobHandler
}

func NewExtractWorker(cfg *Config, jobs JobHandler, log logger.Logger) *ExtractWorker {
	w := &ExtractWorker{
		BaseWorker: newBaseWorker(cfg, log.Named("worker")),
		jobs:       jobs,
	}
	w.mux.HandleFunc(queue.TaskTypeExtract, w.HandleExtract)
	return w
}

// HandleExtract is the asynq handler for queue.TaskTypeExtract. Failures that
// a retry cannot fix skip the retry queue.
func (w *ExtractWorker) HandleExtract(ctx context.Context, t *asynq.Task) error {
	p, err := queue.ParseExtractTask(t)
	if err != nil {
		w.logger.Error("Invalid task",
			logger.String("payload", string(t.Payload())),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	log := w.logger.With(logger.String("jobId", p.JobID))
	log.Info("Processing extraction task")
	w.writeResult(t, `{"status":"running"}`)

	err = w.jobs.HandleExtraction(ctx, p.JobID)
	if err != nil {
		log.Error("Extraction task failed", logger.Error(err))
		w.writeResult(t, fmt.Sprintf(`{"status":"failed","error":%q}`, err.Error()))
		if errors.Is(err, document.ErrExtractionFailed) || errors.Is(err, store.ErrJobNotFound) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	w.writeResult(t, `{"status":"completed"}`)
	log.Info("Extraction task completed")
	return nil
}

func (w *ExtractWorker) writeResult(t *asynq.Task, result string) {
	rw := t.ResultWriter()
	if rw == nil {
		return
	}
	if _, err := rw.Write([]byte(result)); err != nil {
		w.logger.Error("Failed to write task result", logger.Error(err))
	}
}
