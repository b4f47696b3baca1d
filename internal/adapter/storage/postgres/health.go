package postgres

import (
	"context"
	"time"
)

// HealthCheck pings the database with a short deadline.
func HealthCheck(ctx context.Context, pool Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return pool.Ping(ctx)
}
