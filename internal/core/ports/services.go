package ports

import (
	"context"
	"time"

	"custodial-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferRequest carries everything the engine needs; the caller identity
// is an explicit parameter, never ambient state.
type TransferRequest struct {
	CallerID          uuid.UUID
	SenderAccountID   uuid.UUID
	ReceiverAccountID uuid.UUID
	Amount            decimal.Decimal
	Pin               string
	ReferenceID       string
}

// TransferService is the transfer engine.
type TransferService interface {
	Execute(ctx context.Context, req TransferRequest) (*domain.Transaction, error)
}

// DepositRequest credits an account from an external source.
type DepositRequest struct {
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	ReferenceID string
}

// AccountService covers balance inquiries, deposits, and statements.
type AccountService interface {
	GetBalance(ctx context.Context, callerID uuid.UUID) (*domain.Account, error)
	Deposit(ctx context.Context, req DepositRequest) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, callerID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
}

// RegisterRequest creates a user together with their account.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Pin      string
}

// AuthService handles onboarding and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// AliasService manages alias keys and resolves them to accounts.
type AliasService interface {
	Create(ctx context.Context, userID uuid.UUID, keyType domain.AliasKeyType, value string) (*domain.AliasKey, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.AliasKey, error)
	Delete(ctx context.Context, userID uuid.UUID, keyID uuid.UUID) error
	Resolve(ctx context.Context, value string) (*domain.Account, error)
}

// HashService hashes and verifies credentials (passwords and PINs).
type HashService interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) (bool, error)
}

// TokenService issues and validates bearer tokens.
type TokenService interface {
	Generate(userID uuid.UUID, ttl time.Duration) (string, error)
	Validate(token string) (uuid.UUID, error)
}

// EventPublisher emits domain events after commit. Best effort; a failed
// publish must never fail the business operation.
type EventPublisher interface {
	PublishTransferCompleted(ctx context.Context, event domain.TransferCompletedEvent) error
}

// IdempotencyCache is the Redis fast path in front of IdempotencyRepository.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
	Set(ctx context.Context, record *domain.IdempotencyRecord, ttl time.Duration) error
}

// ProcessedEventStore remembers which event ids a consumer already handled.
// MarkProcessed returns false when the id was already present. Unmark rolls
// a mark back when handling the event failed after all.
type ProcessedEventStore interface {
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	Unmark(ctx context.Context, eventID string) error
}

// NotificationSink receives events the notifier has accepted exactly once.
type NotificationSink interface {
	Notify(ctx context.Context, event domain.TransferCompletedEvent) error
}

// RateLimitStore counts requests per key within a fixed window.
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}
