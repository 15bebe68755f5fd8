package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/feichai0017/pdftext/internal/models"
	"github.com/feichai0017/pdftext/internal/utils/validator"
	"github.com/feichai0017/pdftext/pkg/logger"
	"github.com/feichai0017/pdftext/pkg/storage"
	"github.com/feichai0017/pdftext/pkg/store"
)

type Service struct {
	extractor Extractor
	store     store.Store
	validator *validator.UploadValidator
	publisher *storage.Publisher
	queue     Enqueuer
	tempDir   string
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
}

type Option func(*Service)

// WithPublisher copies finished text files to cloud storage.
func WithPublisher(p *storage.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithQueue enables Submit.
func WithQueue(q Enqueuer) Option {
	return func(s *Service) { s.queue = q }
}

func NewService(
	extractor Extractor,
	st store.Store,
	v *validator.UploadValidator,
	tempDir string,
	log logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		extractor: extractor,
		store:     st,
		validator: v,
		tempDir:   tempDir,
		logger:    log.Named("job"),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) pdfPath(id string) string  { return filepath.Join(s.tempDir, id+".pdf") }
func (s *Service) textPath(id string) string { return filepath.Join(s.tempDir, id+".txt") }

func (s *Service) Create(ctx context.Context, header *multipart.FileHeader) (*models.Job, error) {
	filename, err := s.validator.Validate(header)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	log := s.logger.With(logger.String("jobId", id), logger.String("filename", filename))
	log.Info("Starting extraction", logger.Int64("size", header.Size))

	pdfPath := s.pdfPath(id)
	if err := savePDF(header, pdfPath); err != nil {
		log.Error("Failed to store upload", logger.Error(err))
		return nil, err
	}

	result, err := s.extractor.Extract(ctx, pdfPath)
	if err != nil {
		log.Error("Extraction failed", logger.Error(err))
		discard(log, pdfPath)
		return nil, err
	}

	textPath := s.textPath(id)
	if err := writeFileAtomic(textPath, []byte(result.Text)); err != nil {
		log.Error("Failed to write text", logger.Error(err))
		discard(log, pdfPath)
		return nil, err
	}

	now := s.now()
	job := &models.Job{
		ID:        id,
		Filename:  filename,
		PDFPath:   pdfPath,
		TextPath:  textPath,
		Status:    models.StatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.CloudObject = s.publisher.Publish(ctx, textPath)

	if err := s.store.Create(ctx, job); err != nil {
		log.Error("Failed to record job", logger.Error(err))
		discard(log, pdfPath, textPath)
		return nil, fmt.Errorf("failed to record job: %w", err)
	}

	log.Info("Job completed",
		logger.String("ocrStatus", result.OCR.Status.String()),
		logger.Int("chars", len(result.Text)),
	)
	return job, nil
}

func (s *Service) Submit(ctx context.Context, header *multipart.FileHeader) (*models.Job, error) {
	if s.queue == nil {
		return nil, ErrAsyncDisabled
	}
	filename, err := s.validator.Validate(header)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	log := s.logger.With(logger.String("jobId", id), logger.String("filename", filename))

	pdfPath := s.pdfPath(id)
	if err := savePDF(header, pdfPath); err != nil {
		log.Error("Failed to store upload", logger.Error(err))
		return nil, err
	}

	now := s.now()
	job := &models.Job{
		ID:        id,
		Filename:  filename,
		PDFPath:   pdfPath,
		TextPath:  s.textPath(id),
		Status:    models.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, job); err != nil {
		log.Error("Failed to record job", logger.Error(err))
		discard(log, pdfPath)
		return nil, fmt.Errorf("failed to record job: %w", err)
	}

	taskID, err := s.queue.EnqueueExtraction(ctx, id)
	if err != nil {
		log.Error("Failed to enqueue job", logger.Error(err))
		s.finish(ctx, job, err)
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	log.Info("Job queued", logger.String("taskId", taskID))
	return job, nil
}

func (s *Service) HandleExtraction(ctx context.Context, id string) error {
	job, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Done() {
		s.logger.Info("Job already completed", logger.String("jobId", id))
		return nil
	}

	job.Status = models.StatusRunning
	job.UpdatedAt = s.now()
	if err := s.store.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	err = s.extract(ctx, job)
	s.finish(ctx, job, err)
	return err
}

func (s *Service) Get(ctx context.Context, id string) (*models.Job, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) TextPath(ctx context.Context, id string) (string, error) {
	job, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !job.Done() {
		return "", ErrJobNotReady
	}
	if _, err := os.Stat(job.TextPath); err != nil {
		return "", fmt.Errorf("text for job %s: %w", id, err)
	}
	return job.TextPath, nil
}

func (s *Service) Text(ctx context.Context, id string) (string, error) {
	path, err := s.TextPath(ctx, id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("text for job %s: %w", id, err)
	}
	return string(data), nil
}

func (s *Service) Redo(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status == models.StatusQueued || job.Status == models.StatusRunning {
		return nil, ErrJobNotReady
	}

	log := s.logger.With(logger.String("jobId", id))
	if _, err := os.Stat(job.PDFPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Original PDF is gone", logger.String("path", job.PDFPath))
			return nil, ErrOriginalNotFound
		}
		return nil, fmt.Errorf("stat original: %w", err)
	}

	log.Info("Re-running extraction")
	if err := s.extract(ctx, job); err != nil {
		log.Error("Re-extraction failed, keeping previous text", logger.Error(err))
		return nil, err
	}
	s.finish(ctx, job, nil)
	return job, nil
}

func (s *Service) CloudLink(ctx context.Context, job *models.Job) string {
	return s.publisher.Link(ctx, job.CloudObject)
}

// extract writes the text of job's PDF to its text path.
func (s *Service) extract(ctx context.Context, job *models.Job) error {
	result, err := s.extractor.Extract(ctx, job.PDFPath)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(job.TextPath, []byte(result.Text)); err != nil {
		return err
	}
	if name := s.publisher.Publish(ctx, job.TextPath); name != "" {
		job.CloudObject = name
	}
	return nil
}

// finish records the outcome of an extraction on job.
func (s *Service) finish(ctx context.Context, job *models.Job, err error) {
	job.UpdatedAt = s.now()
	if err != nil {
		job.Status = models.StatusFailed
		job.Error = err.Error()
	} else {
		job.Status = models.StatusCompleted
		job.Error = ""
	}
	if updErr := s.store.Update(ctx, job); updErr != nil {
		s.logger.Error("Failed to update job",
			logger.String("jobId", job.ID),
			logger.String("status", string(job.Status)),
			logger.Error(updErr),
		)
	}
}

func savePDF(header *multipart.FileHeader, path string) error {
	src, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("failed to save upload: %w", err)
	}
	return dst.Close()
}

// writeFileAtomic replaces path so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write text: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write text: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// discard removes files left behind by a job that was never recorded.
func discard(log logger.Logger, paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("Failed to remove file", logger.String("path", p), logger.Error(err))
		}
	}
}
