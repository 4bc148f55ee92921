package identity

import (
	"github.com/google/uuid"
)

// Identity is the canonical owner of a cart or order: exactly one of an
// authenticated user or an anonymous session. When a request carries
// both, the user wins and the session is ignored.
type Identity struct {
	UserID    *uuid.UUID
	SessionID *string
}

// FromUser builds an identity for an authenticated user.
func FromUser(userID uuid.UUID) Identity {
	if userID == uuid.Nil {
		return Identity{}
	}
	return Identity{UserID: &userID}
}

// FromSession builds an identity for an anonymous session.
func FromSession(sessionID string) Identity {
	if sessionID == "" {
		return Identity{}
	}
	return Identity{SessionID: &sessionID}
}

// Resolve picks the canonical identity for a request. An authenticated
// user always takes precedence over a session cookie.
func Resolve(userID *uuid.UUID, sessionID string) Identity {
	if userID != nil && *userID != uuid.Nil {
		return FromUser(*userID)
	}
	return FromSession(sessionID)
}

// IsZero reports whether no identity was resolved.
func (i Identity) IsZero() bool {
	return i.UserID == nil && i.SessionID == nil
}

// IsUser reports whether the identity is an authenticated user.
func (i Identity) IsUser() bool {
	return i.UserID != nil
}
