package domain

import "time"

// RecordMeta carries the shared persistence timestamps embedded by every
// stored entity.
type RecordMeta struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
