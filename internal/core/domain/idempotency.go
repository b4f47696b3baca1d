package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyRecord stores the committed outcome of a transfer keyed by
// caller id and client reference, so a retried request replays the original
// response instead of moving money twice.
type IdempotencyRecord struct {
	Key           string    `json:"key"` // "<caller_id>:<reference_id>"
	TransactionID uuid.UUID `json:"transaction_id"`
	Response      []byte    `json:"response"`
	CreatedAt     time.Time `json:"created_at"`
}

// IdempotencyKey builds the composite lookup key.
func IdempotencyKey(callerID uuid.UUID, referenceID string) string {
	return callerID.String() + ":" + referenceID
}
