// Package usecase implements the business logic for the task feature.
package usecase

import "taskhub_backend/internal/shared/apperr"

var (
	// ErrTaskNotFound is returned for absent tasks and for tasks in projects the caller does not own.
	ErrTaskNotFound = apperr.New(apperr.ErrNotFound, "task not found")

	// ErrInvalidTitle is returned for an empty or oversized title.
	ErrInvalidTitle = apperr.New(apperr.ErrBadRequest, "task title must be between 1 and 255 characters")

	// ErrInvalidStatus is returned for a status outside todo, in_progress and done.
	ErrInvalidStatus = apperr.New(apperr.ErrBadRequest, "status must be one of todo, in_progress, done")
)
