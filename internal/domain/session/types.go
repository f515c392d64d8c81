// Package session manages control-protocol sessions. A session is
// established by the handshake and carries the negotiated RPC version
// and the client's leniency preference for non-fatal request checks.
package session

import "time"

// Session tracks an identified control client across requests.
type Session struct {
	// ID is a cryptographically random identifier, 32 bytes hex-encoded.
	ID string
	// RPCVersion is the protocol version negotiated at handshake.
	RPCVersion int
	// IgnoreNonFatalRequestChecks indicates the client wants non-fatal
	// validation failures to not block its requests. The validators
	// themselves never consult this; enforcement is dispatch-level policy.
	IgnoreNonFatalRequestChecks bool
	// RemoteAddr is the client address recorded at handshake.
	RemoteAddr string
	// CreatedAt is when the session was created (UTC).
	CreatedAt time.Time
	// ExpiresAt is when the session will expire (UTC).
	ExpiresAt time.Time
	// LastAccess is the last time the session was used (UTC).
	LastAccess time.Time
}

// IsExpired checks if the session has exceeded its timeout.
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// Refresh updates LastAccess and extends ExpiresAt by the given duration.
func (s *Session) Refresh(timeout time.Duration) {
	now := time.Now().UTC()
	s.LastAccess = now
	s.ExpiresAt = now.Add(timeout)
}
