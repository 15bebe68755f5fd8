package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/pdftext/api/handlers"
	"github.com/feichai0017/pdftext/api/middleware"
	"github.com/feichai0017/pdftext/api/templates"
	"github.com/feichai0017/pdftext/pkg/logger"
)

// SetupRoutes registers the web UI and the JSON API.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, allowOrigins []string, log logger.Logger) error {
	tmpl, err := templates.Load()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(allowOrigins))

	r.GET("/", h.Job.Index)
	r.POST("/upload", h.Job.Upload)
	r.GET("/status/:job_id", h.Job.Status)
	r.GET("/preview/:job_id", h.Job.Preview)
	r.GET("/download/:file_id", h.Job.Download)
	r.GET("/redo/:job_id", h.Job.Redo)
	r.GET("/healthz", h.Job.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/jobs", h.Job.Submit)
		v1.GET("/jobs/:job_id", h.Job.Status)
	}
	return nil
}
