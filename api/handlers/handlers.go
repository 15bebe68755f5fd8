package handlers

import (
	"github.com/feichai0017/pdftext/internal/service/job"
	"github.com/feichai0017/pdftext/pkg/logger"
)

type Handlers struct {
	Job *JobHandler
}

func NewHandlers(
	jobService job.JobProcessor,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Job: NewJobHandler(jobService, logger),
	}
}
