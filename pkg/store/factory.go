package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	cfg "github.com/feichai0017/pdftext/config"
)

// New opens the backend named in the config. The redis backend is pinged
// before it is returned.
func New(ctx context.Context, c *cfg.Config) (Store, error) {
	switch c.Store.Backend {
	case "memory", "":
		return NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", c.Redis.Addr, err)
		}
		return NewRedisStore(client, c.Store.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", c.Store.Backend)
	}
}
