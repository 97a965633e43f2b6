// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user in the system.
type User struct {
	// ID is the unique identifier for the user.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is the bcrypt digest of the user's password.
	PasswordHash string `gorm:"size:255;not null"`

	IsActive bool `gorm:"not null"`
	IsAdmin  bool `gorm:"not null"`

	// SubscriptionID points at the user's current subscription, if any.
	// It is maintained by the subscription feature.
	SubscriptionID *uuid.UUID `gorm:"type:uuid"`

	// TokenVersion is embedded into every issued credential.
	// Bumping it invalidates all credentials issued before.
	TokenVersion int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
