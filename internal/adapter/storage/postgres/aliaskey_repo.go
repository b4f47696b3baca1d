package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AliasKeyRepo struct {
	pool Pool
}

func NewAliasKeyRepo(pool Pool) *AliasKeyRepo {
	return &AliasKeyRepo{pool: pool}
}

func (r *AliasKeyRepo) Create(ctx context.Context, key *domain.AliasKey) error {
	query := `
		INSERT INTO alias_keys (id, user_id, type, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`

	_, err := r.pool.Exec(ctx, query, key.ID, key.UserID, key.Type, key.Value)
	if err != nil {
		return fmt.Errorf("insert alias key: %w", err)
	}
	return nil
}

func (r *AliasKeyRepo) GetByValue(ctx context.Context, value string) (*domain.AliasKey, error) {
	query := `
		SELECT id, user_id, type, value, created_at, updated_at
		FROM alias_keys
		WHERE value = $1`

	var k domain.AliasKey
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&k.ID, &k.UserID, &k.Type, &k.Value, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alias key: %w", err)
	}
	return &k, nil
}

func (r *AliasKeyRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.AliasKey, error) {
	query := `
		SELECT id, user_id, type, value, created_at, updated_at
		FROM alias_keys
		WHERE user_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list alias keys: %w", err)
	}
	defer rows.Close()

	var out []domain.AliasKey
	for rows.Next() {
		var k domain.AliasKey
		if err := rows.Scan(&k.ID, &k.UserID, &k.Type, &k.Value, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan alias key: %w", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alias keys: %w", err)
	}
	return out, nil
}

func (r *AliasKeyRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT count(*) FROM alias_keys WHERE user_id = $1`

	var n int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count alias keys: %w", err)
	}
	return n, nil
}

// Delete removes a key only when it belongs to userID.
func (r *AliasKeyRepo) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query := `DELETE FROM alias_keys WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete alias key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
