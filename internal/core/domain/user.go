package domain

import "github.com/google/uuid"

type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleAdmin    UserRole = "ADMIN"
)

// User is an account holder. Both credential fields store Argon2id encoded
// hashes, never plaintext.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PinHash      string    `json:"-"`
	Role         UserRole  `json:"role"`
	RecordMeta
}
