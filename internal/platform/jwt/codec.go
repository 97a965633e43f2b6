// Package jwtmw issues and verifies signed bearer credentials and provides the
// gin middleware that authenticates requests with them.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskhub_backend/internal/feature/auth/domain/entity"
)

// DefaultTTL is the credential lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// Claims is the token payload: the subject (email), the user's token version
// and the standard registered claims.
type Claims struct {
	Version int `json:"ver"`
	jwt.RegisteredClaims
}

// Codec signs and verifies credentials with a shared secret and an HMAC algorithm.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewCodec creates a Codec for the given secret and algorithm name (HS256, HS384 or HS512).
func NewCodec(secret, algorithm string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &Codec{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}, nil
}

// Issue returns a signed token asserting subject until now+ttl.
// A ttl of zero or less yields a token that is already expired.
func (c *Codec) Issue(subject string, version int, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("credential subject must not be empty")
	}
	now := c.now()
	claims := Claims{
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its content.
// It fails with ErrExpiredCredential once the current time reaches the expiry,
// and with ErrMalformedCredential for anything else that is wrong with the token.
func (c *Codec) Verify(token string) (*entity.Credential, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredential
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrMalformedCredential
	}

	return &entity.Credential{
		Subject:   claims.Subject,
		Version:   claims.Version,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
