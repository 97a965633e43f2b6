// Package entity defines the domain entities for the project feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Project is owned by exactly one user and may be shared with a team.
type Project struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Name is unique across all projects.
	Name        string  `gorm:"uniqueIndex;size:255;not null"`
	Description *string `gorm:"type:text"`

	OwnerID uuid.UUID  `gorm:"type:uuid;index;not null"`
	TeamID  *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetOwnerID returns the owning user's id.
func (p *Project) GetOwnerID() uuid.UUID {
	return p.OwnerID
}
