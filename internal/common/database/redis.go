package database

import (
	"context"
	"fmt"
	"time"

	"labportal/internal/common/config"
	"labportal/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

// Redis holds the client behind persisted sessions. A CLI process issues a
// few commands per run, so the pool stays small.
type Redis struct {
	client *redis.Client
}

func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	if cfg.Address == "" {
		return nil, errors.NewConfigError("database.redis.address is empty")
	}
	return WrapRedis(redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     2,
	})), nil
}

func WrapRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Client() *redis.Client { return r.client }

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
