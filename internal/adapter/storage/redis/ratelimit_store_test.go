package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_CountsWithinWindow(t *testing.T) {
	store := NewRateLimitStore(newTestClient(t))
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.Increment(ctx, "user-1:/transfers", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRateLimitStore_KeysAreIndependent(t *testing.T) {
	store := NewRateLimitStore(newTestClient(t))
	ctx := context.Background()

	_, err := store.Increment(ctx, "a", time.Minute)
	require.NoError(t, err)

	got, err := store.Increment(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
