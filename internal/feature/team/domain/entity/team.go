// Package entity defines the domain entities for the team feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Team is owned by one user. The owner is implicitly a member and is never
// stored in TeamMember.
type Team struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:255;not null"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetOwnerID returns the owning user's id.
func (t *Team) GetOwnerID() uuid.UUID {
	return t.OwnerID
}

// TeamMember associates a user with a team.
type TeamMember struct {
	TeamID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

// TeamWithMembers is a team together with the ids of its stored members.
type TeamWithMembers struct {
	Team
	MemberIDs []uuid.UUID
}
