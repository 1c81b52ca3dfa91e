// Package common defines shared constants and sentinel errors used across
// the server, transports and client. Callers should use errors.Is to match
// these values; producers wrap them with fmt.Errorf("...: %w", ...).
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors (generic/internal flow control).
	ErrorUnauthorized = errors.New("unauthorized")

	// Request validation errors.
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidUsername = errors.New("invalid username")

	// Credential errors.
	ErrBadPassword     = errors.New("bad password")
	ErrHash            = errors.New("password hashing failed")
	ErrMalformedRecord = errors.New("malformed credential record")
	ErrSerialization   = errors.New("record serialization failed")

	// Signing key errors.
	ErrSeed = errors.New("invalid signing seed")

	// Token errors. ErrTokenParse, ErrTokenIntegrity and ErrTokenExpired
	// all wrap ErrTokenValidation.
	ErrTokenCreation   = errors.New("token creation failed")
	ErrTokenValidation = errors.New("token validation failed")
	ErrTokenParse      = tokenError("malformed token")
	ErrTokenIntegrity  = tokenError("token integrity check failed")
	ErrTokenExpired    = tokenError("token expired")
)

// TokenErrorMessage returns the caller-facing text for a token validation
// failure. Parser details are dropped.
func TokenErrorMessage(err error) string {
	if errors.Is(err, ErrTokenExpired) {
		return "token expired"
	}
	return "invalid token"
}

func tokenError(msg string) error {
	return &wrapped{msg: msg, parent: ErrTokenValidation}
}

type wrapped struct {
	msg    string
	parent error
}

func (e *wrapped) Error() string { return e.msg }
func (e *wrapped) Unwrap() error { return e.parent }
