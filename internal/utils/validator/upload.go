package validator

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/feichai0017/pdftext/pkg/logger"
)

var (
	ErrNoFileProvided = errors.New("no file provided")
	ErrEmptyFilename  = errors.New("empty filename")
	// ErrInvalidUpload covers size, extension and content checks.
	ErrInvalidUpload = errors.New("invalid upload")
)

const pdfMIME = "application/pdf"

// UploadValidator checks an uploaded PDF before it touches disk.
type UploadValidator struct {
	maxSize int64
	logger  logger.Logger
}

func NewUploadValidator(log logger.Logger, maxSize int64) *UploadValidator {
	return &UploadValidator{
		maxSize: maxSize,
		logger:  log.Named("validator"),
	}
}

// Validate returns the sanitized filename of an acceptable upload.
func (v *UploadValidator) Validate(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", ErrNoFileProvided
	}
	if header.Filename == "" {
		return "", ErrEmptyFilename
	}

	name := SanitizeFilename(header.Filename)
	if name == "" {
		return "", fmt.Errorf("%w: filename %q has no usable characters", ErrInvalidUpload, header.Filename)
	}
	if v.maxSize > 0 && header.Size > v.maxSize {
		return "", fmt.Errorf("%w: file size %d exceeds maximum of %d bytes", ErrInvalidUpload, header.Size, v.maxSize)
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".pdf" {
		return "", fmt.Errorf("%w: file type %q is not allowed", ErrInvalidUpload, ext)
	}

	f, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to detect mime type: %w", err)
	}
	if !mtype.Is(pdfMIME) {
		v.logger.Warn("Rejected upload with unexpected content",
			logger.String("filename", name),
			logger.String("mimeType", mtype.String()),
		)
		return "", fmt.Errorf("%w: content type %s is not %s", ErrInvalidUpload, mtype.String(), pdfMIME)
	}
	return name, nil
}
