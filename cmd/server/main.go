package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/pdftext/api/handlers"
	"github.com/feichai0017/pdftext/api/routes"
	"github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/internal/service/job"
	"github.com/feichai0017/pdftext/pkg/logger"
)

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		panic(err)
	}

	// init logger
	log, err := logger.NewLogger(cfg.Log.LoggerOptions(
		logger.WithInitialFields(map[string]interface{}{"service": "pdftext-server"}),
	)...)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// init job service
	jobService, err := job.GetService(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to get job service", logger.Error(err))
	}

	// init handlers
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.NewHandlers(jobService, log)
	r := gin.New()
	r.Use(gin.Recovery())
	if err := routes.SetupRoutes(r, h, cfg.Server.AllowOrigins, log); err != nil {
		log.Fatal("Failed to set up routes", logger.Error(err))
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	// start server
	go func() {
		log.Info("Server starting", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	// graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}
