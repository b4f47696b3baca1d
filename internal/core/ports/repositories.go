package ports

import (
	"context"

	"custodial-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DBTransactor abstracts transaction lifecycle so the service layer can run
// a unit of work without knowing the concrete pool. Begin applies the
// configured lock timeout to the new transaction.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AccountRepository persists accounts. Balance writes require the caller to
// hold the row lock taken by GetByIDForUpdate; the database releases locks
// on commit, rollback, or connection death.
type AccountRepository interface {
	Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error
}

// TransactionRepository is the append-only ledger. There is deliberately no
// update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
}

// UserRepository persists account holders.
type UserRepository interface {
	Create(ctx context.Context, tx pgx.Tx, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AliasKeyRepository persists transfer aliases.
type AliasKeyRepository interface {
	Create(ctx context.Context, key *domain.AliasKey) error
	GetByValue(ctx context.Context, value string) (*domain.AliasKey, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.AliasKey, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

// IdempotencyRepository stores transfer outcomes inside the same unit of
// work as the transfer itself.
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, record *domain.IdempotencyRecord) error
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
}
