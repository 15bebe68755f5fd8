package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	cfg "github.com/feichai0017/pdftext/config"
)

// TaskTypeExtract runs text extraction for one job.
const TaskTypeExtract = "pdf:extract"

// ExtractPayload is the body of a TaskTypeExtract task.
type ExtractPayload struct {
	JobID string `json:"jobId"`
}

// Enqueuer abstracts the asynq client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type AsynqQueue struct {
	client   Enqueuer
	queue    string
	maxRetry int
	timeout  time.Duration
}

// RedisOpt builds the asynq connection settings from the app config.
func RedisOpt(c *cfg.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}

func NewAsynqQueue(c *cfg.Config) *AsynqQueue {
	return NewAsynqQueueWithClient(asynq.NewClient(RedisOpt(c)), c.Queue)
}

func NewAsynqQueueWithClient(client Enqueuer, qc cfg.QueueConfig) *AsynqQueue {
	return &AsynqQueue{
		client:   client,
		queue:    "default",
		maxRetry: qc.MaxRetry,
		timeout:  qc.Timeout,
	}
}

// NewExtractTask encodes a TaskTypeExtract task for jobID.
func NewExtractTask(jobID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ExtractPayload{JobID: jobID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}
	return asynq.NewTask(TaskTypeExtract, payload), nil
}

// ParseExtractTask decodes the payload of a TaskTypeExtract task.
func ParseExtractTask(t *asynq.Task) (ExtractPayload, error) {
	var p ExtractPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	if p.JobID == "" {
		return p, fmt.Errorf("invalid task data: missing jobId")
	}
	return p, nil
}

// EnqueueExtraction queues jobID and returns the task id. The task id is
// the job id, so a job is never queued twice.
func (q *AsynqQueue) EnqueueExtraction(ctx context.Context, jobID string) (string, error) {
	t, err := NewExtractTask(jobID)
	if err != nil {
		return "", err
	}

	opts := []asynq.Option{
		asynq.Queue(q.queue),
		asynq.MaxRetry(q.maxRetry),
		asynq.TaskID(jobID),
	}
	if q.timeout > 0 {
		opts = append(opts, asynq.Timeout(q.timeout))
	}

	info, err := q.client.EnqueueContext(ctx, t, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}
	return info.ID, nil
}

func (q *AsynqQueue) Close() error {
	if c, ok := q.client.(*asynq.Client); ok {
		return c.Close()
	}
	return nil
}
