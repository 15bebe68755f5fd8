package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/pdftext/internal/service/job"
	"github.com/feichai0017/pdftext/internal/utils/validator"
	"github.com/feichai0017/pdftext/pkg/logger"
)

type JobHandler struct {
	service job.JobProcessor
	logger  logger.Logger
}

// SubmitResponse acknowledges a queued job.
type SubmitResponse struct {
	TaskID    string `json:"taskId"`
	Status    string `json:"status"`
	Filename  string `json:"filename"`
	CreatedAt string `json:"createdAt"`
}

func NewJobHandler(service job.JobProcessor, logger logger.Logger) *JobHandler {
	return &JobHandler{
		service: service,
		logger:  logger,
	}
}

func (h *JobHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// Upload extracts the posted PDF and redirects to its preview.
func (h *JobHandler) Upload(c *gin.Context) {
	header, err := formFile(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	j, err := h.service.Create(c.Request.Context(), header)
	if err != nil {
		h.renderError(c, err)
		return
	}

	logger.FromContext(c.Request.Context(), h.logger).Info("Stored file for job",
		logger.String("jobId", j.ID),
		logger.String("textPath", j.TextPath),
	)
	c.Redirect(http.StatusFound, "/preview/"+j.ID)
}

// Submit queues the posted PDF for background extraction.
func (h *JobHandler) Submit(c *gin.Context) {
	header, err := formFile(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	j, err := h.service.Submit(c.Request.Context(), header)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, SubmitResponse{
		TaskID:    j.ID,
		Status:    string(j.Status),
		Filename:  j.Filename,
		CreatedAt: j.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *JobHandler) Status(c *gin.Context) {
	id := c.Param("job_id")
	j, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Warn("Job not found",
			logger.String("jobId", id),
			logger.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{"status": "not found"})
		return
	}

	resp := gin.H{"status": string(j.Status), "file_id": j.ID}
	if j.Error != "" {
		resp["error"] = "extraction failed"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) Preview(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("job_id")

	j, err := h.service.Get(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	text, err := h.service.Text(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.HTML(http.StatusOK, "preview.html", gin.H{
		"jobID":       j.ID,
		"filename":    j.Filename,
		"text":        text,
		"downloadURL": "/download/" + j.ID,
		"redoURL":     "/redo/" + j.ID,
		"cloudURL":    h.service.CloudLink(ctx, j),
	})
}

func (h *JobHandler) Download(c *gin.Context) {
	id := c.Param("file_id")
	path, err := h.service.TextPath(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.FileAttachment(path, id+".txt")
}

// Redo re-extracts the job's PDF and redirects to the refreshed preview.
func (h *JobHandler) Redo(c *gin.Context) {
	id := c.Param("job_id")
	j, err := h.service.Redo(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/preview/"+j.ID)
}

func (h *JobHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// formFile tells a request without a file part apart from a file part sent
// with an empty filename, which the multipart reader files as a plain value.
func formFile(c *gin.Context) (*multipart.FileHeader, error) {
	header, err := c.FormFile("file")
	if err == nil {
		return header, nil
	}
	if errors.Is(err, http.ErrMissingFile) && c.Request.MultipartForm != nil {
		if _, ok := c.Request.MultipartForm.Value["file"]; ok {
			return nil, validator.ErrEmptyFilename
		}
	}
	return nil, validator.ErrNoFileProvided
}
