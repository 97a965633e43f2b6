package entity

import "time"

// Credential is the verified content of a bearer token.
// It is never persisted; it is rebuilt from the token on every request.
type Credential struct {
	Subject   string    // user's email
	Version   int       // must match User.TokenVersion
	ExpiresAt time.Time // absolute expiry
}
