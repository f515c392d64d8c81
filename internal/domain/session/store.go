package session

import (
	"context"
	"errors"
)

// SessionStore provides session persistence.
// The interface lives in the domain to keep adapters replaceable.
// Implementations: in-memory (default).
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if session doesn't exist or is expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Update saves changes to an existing session.
	Update(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}

// ErrSessionNotFound is returned when a session doesn't exist or is expired.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnsupportedRPCVersion is returned when the client asks for a
// protocol version the server does not speak.
var ErrUnsupportedRPCVersion = errors.New("unsupported rpc version")
