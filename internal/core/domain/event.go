package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferCompletedEvent is published after a transfer commits. Delivery is
// at-least-once; consumers deduplicate by TransactionID.
type TransferCompletedEvent struct {
	TransactionID   uuid.UUID       `json:"transaction_id"`
	Amount          decimal.Decimal `json:"amount"`
	SenderContact   string          `json:"sender_contact"`
	ReceiverContact string          `json:"receiver_contact"`
	Timestamp       time.Time       `json:"timestamp"`
}
