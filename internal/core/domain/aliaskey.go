package domain

import "github.com/google/uuid"

type AliasKeyType string

const (
	AliasEmail  AliasKeyType = "EMAIL"
	AliasPhone  AliasKeyType = "PHONE"
	AliasRandom AliasKeyType = "RANDOM"
)

// MaxAliasKeysPerUser caps how many alias keys one user may register.
const MaxAliasKeysPerUser = 5

// AliasKey is a human-friendly address that resolves to its owner's account.
// The value is globally unique.
type AliasKey struct {
	ID     uuid.UUID    `json:"id"`
	UserID uuid.UUID    `json:"user_id"`
	Type   AliasKeyType `json:"type"`
	Value  string       `json:"value"`
	RecordMeta
}
