package handlers

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/pdftext/internal/agent/document"
	"github.com/feichai0017/pdftext/internal/service/job"
	"github.com/feichai0017/pdftext/internal/utils/validator"
	"github.com/feichai0017/pdftext/pkg/logger"
	"github.com/feichai0017/pdftext/pkg/store"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// classify maps a service error to a status code and a message safe to show
// to the client.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, validator.ErrNoFileProvided):
		return http.StatusBadRequest, "No file part in the request"
	case errors.Is(err, validator.ErrEmptyFilename):
		return http.StatusBadRequest, "No file selected for uploading"
	case errors.Is(err, validator.ErrInvalidUpload):
		return http.StatusBadRequest, "Only PDF files can be processed"
	case errors.Is(err, store.ErrJobNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, "File not found"
	case errors.Is(err, job.ErrOriginalNotFound):
		return http.StatusNotFound, "Original PDF not found"
	case errors.Is(err, job.ErrJobNotReady):
		return http.StatusConflict, "Job is not finished yet"
	case errors.Is(err, job.ErrAsyncDisabled):
		return http.StatusServiceUnavailable, "Background extraction is not enabled"
	case errors.Is(err, document.ErrExtractionFailed):
		return http.StatusInternalServerError, "Failed to extract text from the PDF"
	default:
		return http.StatusInternalServerError, "An error occurred while processing the request"
	}
}

func (h *JobHandler) handleError(c *gin.Context, err error) {
	status, message := classify(err)
	h.log(c, status, message, err)
	c.JSON(status, ErrorResponse{Error: message})
}

// renderError answers form posts with the upload page and an error banner.
func (h *JobHandler) renderError(c *gin.Context, err error) {
	status, message := classify(err)
	h.log(c, status, message, err)
	c.HTML(status, "index.html", gin.H{"error": message})
}

func (h *JobHandler) log(c *gin.Context, status int, message string, err error) {
	log := logger.FromContext(c.Request.Context(), h.logger)
	fields := []logger.Field{
		logger.String("path", c.Request.URL.Path),
		logger.Int("status", status),
		logger.Error(err),
	}
	if status >= http.StatusInternalServerError {
		log.Error(message, fields...)
		return
	}
	log.Warn(message, fields...)
}
