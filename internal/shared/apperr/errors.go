// Package apperr defines the error kinds shared by every feature.
//
// Features declare their own sentinel errors with New, attaching one of the
// kinds below. The transport layer only looks at the kind to choose a status
// code, while the message of the sentinel is what the client sees.
package apperr

import "errors"

// Error kinds. Each maps to exactly one HTTP status in platform/http/response.
var (
	// ErrUnauthorized covers identity and entitlement failures.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller is authenticated but may not act on the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound covers absent resources and resources hidden from the caller.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest covers validation failures and uniqueness conflicts.
	ErrBadRequest = errors.New("bad request")

	// ErrUpstream is returned when an external provider fails.
	ErrUpstream = errors.New("upstream failure")
)

// Error is a sentinel error carrying a kind and a client-facing message.
type Error struct {
	Kind error
	Msg  string
}

// New creates a sentinel error of the given kind.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string {
	return e.Msg
}

// Unwrap lets errors.Is match the kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Kind reports which error kind err belongs to, or nil when err is not classified.
func Kind(err error) error {
	for _, k := range []error{ErrUnauthorized, ErrForbidden, ErrNotFound, ErrBadRequest, ErrUpstream} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Validation builds an ad-hoc bad request error, e.g. for field checks.
func Validation(msg string) error {
	return New(ErrBadRequest, msg)
}
