package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessedEventStore_FirstMarkWins(t *testing.T) {
	store := NewProcessedEventStore(newTestClient(t))
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "tx-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkProcessed(ctx, "tx-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestProcessedEventStore_UnmarkAllowsRetry(t *testing.T) {
	store := NewProcessedEventStore(newTestClient(t))
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "tx-2", time.Minute)
	require.NoError(t, err)

	require.NoError(t, store.Unmark(ctx, "tx-2"))

	fresh, err := store.MarkProcessed(ctx, "tx-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestProcessedEventStore_DistinctIDs(t *testing.T) {
	store := NewProcessedEventStore(newTestClient(t))
	ctx := context.Background()

	a, err := store.MarkProcessed(ctx, "tx-a", time.Minute)
	require.NoError(t, err)
	b, err := store.MarkProcessed(ctx, "tx-b", time.Minute)
	require.NoError(t, err)

	assert.True(t, a)
	assert.True(t, b)
}
