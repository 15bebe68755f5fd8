package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/internal/service/job"
	"github.com/feichai0017/pdftext/pkg/logger"
	"github.com/feichai0017/pdftext/pkg/queue"
	"github.com/feichai0017/pdftext/pkg/worker"
)

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Log.LoggerOptions(
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
		logger.WithInitialFields(map[string]interface{}{"service": "pdftext-worker"}),
	)...)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Store.Backend != "redis" {
		log.Error("The worker needs the redis job store", logger.String("store", cfg.Store.Backend))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobService, err := job.GetService(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to create job service", logger.Error(err))
		os.Exit(1)
	}

	extractWorker := worker.NewExtractWorker(&worker.Config{
		Redis:       queue.RedisOpt(cfg),
		Concurrency: cfg.Queue.Concurrency,
		Queues:      cfg.Queue.Queues,
	}, jobService, log)

	if err := extractWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}
	log.Info("Worker started", logger.Int("concurrency", cfg.Queue.Concurrency))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	extractWorker.Stop()
	log.Info("Worker stopped")
}
