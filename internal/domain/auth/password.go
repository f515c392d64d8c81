// Package auth verifies the control-interface password presented at
// handshake. The server never stores the password itself, only an
// Argon2id hash of it.
package auth

import (
	"errors"
	"strings"

	"github.com/alexedwards/argon2id"
)

// ErrInvalidPassword is returned when the presented password does not
// match the configured hash.
var ErrInvalidPassword = errors.New("invalid password")

// Authenticator checks handshake passwords against a configured
// Argon2id hash. An empty hash disables authentication.
type Authenticator struct {
	passwordHash string
}

// NewAuthenticator creates an Authenticator for the given stored hash.
func NewAuthenticator(passwordHash string) *Authenticator {
	return &Authenticator{passwordHash: passwordHash}
}

// Enabled reports whether a password is required.
func (a *Authenticator) Enabled() bool {
	return a.passwordHash != ""
}

// Verify checks the presented password. Always succeeds when
// authentication is disabled. Returns ErrInvalidPassword on mismatch
// or on a malformed stored hash.
func (a *Authenticator) Verify(password string) error {
	if !a.Enabled() {
		return nil
	}

	match, err := argon2id.ComparePasswordAndHash(password, a.passwordHash)
	if err != nil {
		return ErrInvalidPassword
	}
	if !match {
		return ErrInvalidPassword
	}
	return nil
}

// HashPassword produces an Argon2id hash suitable for the server
// configuration. Leading/trailing whitespace is rejected to avoid
// hashes of passwords that can't be retyped reliably.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	if strings.TrimSpace(password) != password {
		return "", errors.New("password must not have leading or trailing whitespace")
	}
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}
