package redis

import (
	"context"
	"fmt"
	"time"

	"eventbook/pkg/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// NewClient opens a client for cfg.RedisAddr and pings it once. Callers only
// use it when RedisAddr is set.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.RedisAddr, err)
	}

	return rdb, nil
}
