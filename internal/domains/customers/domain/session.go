package domain

import (
	"errors"
	"time"
)

var ErrInvalidSession = errors.New("session must reference a customer and expire in the future")

// Session is a server-side login record referenced by the token's jti claim.
type Session struct {
	ID         string
	CustomerID string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// NewSession opens a session lasting ttl from now.
func NewSession(id, customerID string, now time.Time, ttl time.Duration) (*Session, error) {
	if id == "" || customerID == "" || ttl <= 0 {
		return nil, ErrInvalidSession
	}
	return &Session{
		ID:         id,
		CustomerID: customerID,
		CreatedAt:  now.UTC(),
		ExpiresAt:  now.UTC().Add(ttl),
	}, nil
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
