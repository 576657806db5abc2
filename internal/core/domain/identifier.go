package domain

import (
	"strings"

	"github.com/google/uuid"
)

// UserID is an opaque, immutable user identifier.
type UserID string

// NewUserID generates a fresh random identifier.
func NewUserID() UserID {
	return UserID(uuid.NewString())
}

// ParseUserID validates an identifier loaded from storage or a request.
func ParseUserID(s string) (UserID, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyID
	}
	return UserID(s), nil
}

func (id UserID) String() string {
	return string(id)
}

// SessionID is an opaque, immutable session identifier.
type SessionID string

// NewSessionID generates a fresh random identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// ParseSessionID validates an identifier loaded from storage or a request.
func ParseSessionID(s string) (SessionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyID
	}
	return SessionID(s), nil
}

func (id SessionID) String() string {
	return string(id)
}
