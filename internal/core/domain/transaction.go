package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeTransfer TransactionType = "TRANSFER"
	TypeDeposit  TransactionType = "DEPOSIT"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Transaction is one immutable ledger entry. Rows are insert-only; the
// repository contract exposes no update or delete.
type Transaction struct {
	ID                uuid.UUID         `json:"id"`
	SenderAccountID   *uuid.UUID        `json:"sender_account_id,omitempty"` // nil for deposits
	ReceiverAccountID uuid.UUID         `json:"receiver_account_id"`
	Amount            decimal.Decimal   `json:"amount"`
	Type              TransactionType   `json:"type"`
	Status            TransactionStatus `json:"status"`
	ReferenceID       string            `json:"reference_id"`
	CreatedAt         time.Time         `json:"created_at"`
}
