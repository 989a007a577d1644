package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The password hash never leaves the server:
// it is excluded from JSON and only compared through bcrypt.
type User struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}
