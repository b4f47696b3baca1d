package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type AccountRepo struct {
	pool Pool
}

func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

func (r *AccountRepo) Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())`

	_, err := tx.Exec(ctx, query, account.ID, account.UserID, account.Balance)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1`

	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *AccountRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1`

	return r.scanAccount(r.pool.QueryRow(ctx, query, userID))
}

// GetByIDForUpdate reads the account under an exclusive row lock scoped to
// tx. The lock is released by the database on commit or rollback.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE`

	return r.scanAccount(tx.QueryRow(ctx, query, id))
}

// UpdateBalance writes a balance previously read under lock in the same tx.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $2, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, balance)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update balance: account %s not found", id)
	}
	return nil
}

func (r *AccountRepo) scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}
