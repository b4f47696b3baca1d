package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const processedPrefix = "evt:processed:"

// ProcessedEventStore deduplicates at-least-once deliveries. SETNX makes
// marking atomic: the first consumer to mark an id wins, every redelivery
// sees false.
type ProcessedEventStore struct {
	client *goredis.Client
}

func NewProcessedEventStore(client *goredis.Client) *ProcessedEventStore {
	return &ProcessedEventStore{client: client}
}

// MarkProcessed returns true when eventID was not seen before.
func (s *ProcessedEventStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, processedPrefix+eventID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark processed: %w", err)
	}
	return ok, nil
}

// Unmark releases an id so a requeued delivery can be handled again.
func (s *ProcessedEventStore) Unmark(ctx context.Context, eventID string) error {
	if err := s.client.Del(ctx, processedPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("unmark processed: %w", err)
	}
	return nil
}
