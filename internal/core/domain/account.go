package domain

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds a user's custodial balance. The balance is an exact decimal
// (NUMERIC(19,2) in storage) and is only mutated while the row is locked.
type Account struct {
	ID      uuid.UUID       `json:"id"`
	UserID  uuid.UUID       `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
	RecordMeta
}

// Debit removes amount from the balance. Returns false when the balance
// would go negative; the caller decides how to surface that.
func (a *Account) Debit(amount decimal.Decimal) bool {
	if a.Balance.LessThan(amount) {
		return false
	}
	a.Balance = a.Balance.Sub(amount)
	return true
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}

// OrderIDs returns the two account ids in their canonical byte order. Locking
// rows in this order, regardless of transfer direction, makes opposing
// transfers deadlock-free.
func OrderIDs(a, b uuid.UUID) (first, second uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}
