package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo is the append-only ledger. It exposes inserts and reads
// only; the schema additionally rejects updates and deletes.
type TransactionRepo struct {
	pool Pool
}

func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, sender_account_id, receiver_account_id, amount, type, status, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		txn.ID, txn.SenderAccountID, txn.ReceiverAccountID,
		txn.Amount, txn.Type, txn.Status, txn.ReferenceID, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `
		SELECT id, sender_account_id, receiver_account_id, amount, type, status, reference_id, created_at
		FROM transactions
		WHERE id = $1`

	var t domain.Transaction
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.SenderAccountID, &t.ReceiverAccountID,
		&t.Amount, &t.Type, &t.Status, &t.ReferenceID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	query := `
		SELECT id, sender_account_id, receiver_account_id, amount, type, status, reference_id, created_at
		FROM transactions
		WHERE sender_account_id = $1 OR receiver_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID, &t.SenderAccountID, &t.ReceiverAccountID,
			&t.Amount, &t.Type, &t.Status, &t.ReferenceID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
