package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo is the durable half of the idempotency layer; records are
// written in the same transaction as the transfer they describe.
type IdempotencyRepo struct {
	pool Pool
}

func NewIdempotencyRepo(pool Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool}
}

func (r *IdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, record *domain.IdempotencyRecord) error {
	query := `
		INSERT INTO idempotency_records (key, transaction_id, response, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := tx.Exec(ctx, query, record.Key, record.TransactionID, record.Response, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert idempotency record: %w", err)
	}
	return nil
}

func (r *IdempotencyRepo) GetByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	query := `
		SELECT key, transaction_id, response, created_at
		FROM idempotency_records
		WHERE key = $1`

	var rec domain.IdempotencyRecord
	err := r.pool.QueryRow(ctx, query, key).Scan(&rec.Key, &rec.TransactionID, &rec.Response, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency record: %w", err)
	}
	return &rec, nil
}
