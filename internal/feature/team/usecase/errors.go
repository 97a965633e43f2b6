// Package usecase implements the business logic for the team feature.
package usecase

import "taskhub_backend/internal/shared/apperr"

var (
	// ErrTeamNotFound is returned when the team does not exist.
	ErrTeamNotFound = apperr.New(apperr.ErrNotFound, "team not found")

	// ErrNoTeamsFound is returned when an owner has no teams.
	ErrNoTeamsFound = apperr.New(apperr.ErrNotFound, "teams not found")

	// ErrDuplicateTeamName is returned when another team already uses the name.
	ErrDuplicateTeamName = apperr.New(apperr.ErrBadRequest, "team already exists")

	// ErrInvalidTeamName is returned for an empty or oversized name.
	ErrInvalidTeamName = apperr.New(apperr.ErrBadRequest, "team name must be between 1 and 255 characters")

	// ErrNotTeamOwner is returned when someone other than the owner changes a team.
	ErrNotTeamOwner = apperr.New(apperr.ErrForbidden, "you are not the owner of this team")

	// ErrTeamOrUserNotFound is returned when adding a member to a missing team or adding a missing user.
	ErrTeamOrUserNotFound = apperr.New(apperr.ErrNotFound, "team or user not found")

	// ErrAlreadyMember is returned when the user is already in the team, including its owner.
	ErrAlreadyMember = apperr.New(apperr.ErrBadRequest, "user already in team")

	// ErrCannotRemoveOwner is returned when removing the owner from their own team.
	ErrCannotRemoveOwner = apperr.New(apperr.ErrBadRequest, "you cannot remove the owner of the team")

	// ErrNotMember is returned when removing a user that is not in the team.
	ErrNotMember = apperr.New(apperr.ErrNotFound, "user is not a member of this team")
)
