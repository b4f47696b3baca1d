package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepo struct {
	pool Pool
}

func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, tx pgx.Tx, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, pin_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`

	_, err := tx.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.PinHash, user.Role)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, pin_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, pin_hash, role, created_at, updated_at
		FROM users
		WHERE email = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PinHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
