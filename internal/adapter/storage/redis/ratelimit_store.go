package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "rl:"

// RateLimitStore counts requests per key in a fixed window. The expiry is
// set when the counter is created, so the window starts at first use.
type RateLimitStore struct {
	client *goredis.Client
}

func NewRateLimitStore(client *goredis.Client) *RateLimitStore {
	return &RateLimitStore{client: client}
}

func (s *RateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	rkey := rateLimitPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, rkey)
	pipe.ExpireNX(ctx, rkey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit increment: %w", err)
	}
	return incr.Val(), nil
}
