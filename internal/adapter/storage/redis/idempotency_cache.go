package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"custodial-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idem:"

// IdempotencyCache is the fast path in front of the durable idempotency
// records. A miss here is never an error; the database is the source of
// truth.
type IdempotencyCache struct {
	client *goredis.Client
}

func NewIdempotencyCache(client *goredis.Client) *IdempotencyCache {
	return &IdempotencyCache{client: client}
}

func (c *IdempotencyCache) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	data, err := c.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var rec domain.IdempotencyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("cache unmarshal: %w", err)
	}
	return &rec, nil
}

func (c *IdempotencyCache) Set(ctx context.Context, record *domain.IdempotencyRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	if err := c.client.Set(ctx, idempotencyPrefix+record.Key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
