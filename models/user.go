package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors an identity managed by the external auth provider.
// Rows are provisioned lazily on the first authenticated write and
// never deleted by this service.
type User struct {
	ID          uuid.UUID `json:"id"`
	ClerkUserID string    `json:"clerkUserId"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Firstname   string    `json:"firstname"`
	Lastname    string    `json:"lastname"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
