// Package usecase implements the business logic for the auth feature.
package usecase

import "taskhub_backend/internal/shared/apperr"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = apperr.New(apperr.ErrNotFound, "user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = apperr.New(apperr.ErrBadRequest, "email is already registered")

	// ErrInvalidCredentials is returned when the email or password does not match.
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "invalid credentials")

	// ErrMissingCredential is returned when a request carries no credential at all.
	ErrMissingCredential = apperr.New(apperr.ErrUnauthorized, "missing credential")

	// ErrCredentialRevoked is returned when a credential was issued before the user's last revocation.
	ErrCredentialRevoked = apperr.New(apperr.ErrUnauthorized, "credential has been revoked")

	// ErrUserInactive is returned when a deactivated user presents a valid credential.
	ErrUserInactive = apperr.New(apperr.ErrUnauthorized, "user is inactive")

	// ErrPasswordTooShort is returned when a password is shorter than minPasswordLength.
	ErrPasswordTooShort = apperr.New(apperr.ErrBadRequest, "password must be at least 8 characters long")

	// ErrPasswordTooLong is returned when a password exceeds what bcrypt can hash.
	ErrPasswordTooLong = apperr.New(apperr.ErrBadRequest, "password must be at most 72 bytes long")
)
