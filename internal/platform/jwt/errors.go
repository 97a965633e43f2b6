package jwtmw

import "taskhub_backend/internal/shared/apperr"

var (
	// ErrMalformedCredential is returned when a token's signature is invalid or it cannot be parsed.
	ErrMalformedCredential = apperr.New(apperr.ErrUnauthorized, "malformed credential")

	// ErrExpiredCredential is returned when a token is past its expiry.
	ErrExpiredCredential = apperr.New(apperr.ErrUnauthorized, "credential expired")

	// ErrNotAuthenticated is returned by handlers reached without AuthRequired.
	ErrNotAuthenticated = apperr.New(apperr.ErrUnauthorized, "unauthorized")
)
