package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRecord is the locally persisted session identity. It is stored
// encrypted under the profile's "user" key; a blob that fails to decrypt
// is treated as no session at all.
type UserRecord struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role"`
	LoggedInAt time.Time `json:"logged_in_at"`
}
