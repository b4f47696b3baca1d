package redis

import (
	"context"
	"fmt"
	"time"

	"custodial-ledger/config"

	goredis "github.com/redis/go-redis/v9"
)

// NewClient connects to Redis and verifies connectivity.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// HealthCheck pings Redis with a short deadline.
func HealthCheck(ctx context.Context, client *goredis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}
