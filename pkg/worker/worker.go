package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/pdftext/pkg/logger"
)

type Worker interface {
	Start(ctx context.Context) error
	Stop() error
}

type Config struct {
	Redis       asynq.RedisClientOpt
	Concurrency int
	Queues      map[string]int
}

type BaseWorker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	logger   logger.Logger
	stopChan chan struct{}
}

func newBaseWorker(cfg *Config, log logger.Logger) BaseWorker {
	server := asynq.NewServer(cfg.Redis, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      cfg.Queues,
		RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
			return time.Duration(n) * time.Minute
		},
	})
	return BaseWorker{
		server:   server,
		mux:      asynq.NewServeMux(),
		logger:   log,
		stopChan: make(chan struct{}),
	}
}

func (w *BaseWorker) Start(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-w.stopChan:
		}
	}()
	return nil
}

func (w *BaseWorker) Stop() error {
	select {
	case <-w.stopChan:
		return nil
	default:
	}
	close(w.stopChan)
	w.server.Shutdown()
	return nil
}
