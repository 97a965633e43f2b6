// Package entity defines the domain entities for the task feature.
package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the progress state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

var errInvalidStatus = errors.New("invalid task status")

// ParseStatus validates s. An empty string yields StatusTodo.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return StatusTodo, nil
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	default:
		return "", errInvalidStatus
	}
}

// Task belongs to a project and is deleted with it.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	Description *string   `gorm:"type:text"`
	Status      Status    `gorm:"size:20;not null;default:todo"`
	ProjectID   uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
