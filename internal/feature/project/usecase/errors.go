// Package usecase implements the business logic for the project feature.
package usecase

import "taskhub_backend/internal/shared/apperr"

var (
	// ErrProjectNotFound is returned for absent projects and for projects owned by someone else.
	ErrProjectNotFound = apperr.New(apperr.ErrNotFound, "project not found")

	// ErrDuplicateProjectName is returned when another project already uses the name.
	ErrDuplicateProjectName = apperr.New(apperr.ErrBadRequest, "project name already exists")

	// ErrInvalidProjectName is returned for an empty or oversized name.
	ErrInvalidProjectName = apperr.New(apperr.ErrBadRequest, "project name must be between 1 and 255 characters")

	// ErrTeamAccessDenied is returned when assigning a team the caller neither owns nor belongs to.
	ErrTeamAccessDenied = apperr.New(apperr.ErrForbidden, "you are not a member of this team")
)
