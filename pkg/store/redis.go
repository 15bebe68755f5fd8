package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/feichai0017/pdftext/internal/models"
)

// DefaultKeyPrefix namespaces job keys.
const DefaultKeyPrefix = "pdftext:job:"

// RedisStore keeps jobs as JSON values. Keys never expire.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Create(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(job.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	if !ok {
		return ErrJobExists
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Job, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job from redis: %w", err)
	}

	var job models.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

func (s *RedisStore) Update(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	ok, err := s.client.SetXX(ctx, s.key(job.ID), data, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	if !ok {
		return ErrJobNotFound
	}
	return nil
}
