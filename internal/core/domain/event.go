package domain

import (
	"time"

	"github.com/google/uuid"
)

// LogoutReason explains why a session ended.
type LogoutReason string

const (
	LogoutUserInitiated     LogoutReason = "user_initiated"
	LogoutSessionExpired    LogoutReason = "session_expired"
	LogoutTokenInvalid      LogoutReason = "token_invalid"
	LogoutSecurityViolation LogoutReason = "security_violation"
)

// DomainEvent is an immutable record of a meaningful state transition.
// Events are buffered by the aggregate and drained explicitly by the
// caller; nothing subscribes implicitly.
type DomainEvent interface {
	EventID() string
	AggregateID() string
	EventName() string
	EventVersion() int
	OccurredOn() time.Time
}

// baseEvent carries the fields shared by all events.
type baseEvent struct {
	eventID     string
	aggregateID string
	version     int
	occurredOn  time.Time
}

func newBaseEvent(aggregateID string) baseEvent {
	return baseEvent{
		eventID:     uuid.NewString(),
		aggregateID: aggregateID,
		version:     1,
		occurredOn:  time.Now().UTC(),
	}
}

func (e baseEvent) EventID() string       { return e.eventID }
func (e baseEvent) AggregateID() string   { return e.aggregateID }
func (e baseEvent) EventVersion() int     { return e.version }
func (e baseEvent) OccurredOn() time.Time { return e.occurredOn }

// UserLoggedIn records a successful authentication.
type UserLoggedIn struct {
	baseEvent
	SessionID string
	UserAgent string
	IPAddress string
}

func NewUserLoggedIn(userID, sessionID, userAgent, ipAddress string) UserLoggedIn {
	return UserLoggedIn{
		baseEvent: newBaseEvent(userID),
		SessionID: sessionID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
}

func (UserLoggedIn) EventName() string { return "UserLoggedIn" }

// UserLoggedOut records a session termination and the reason for it.
type UserLoggedOut struct {
	baseEvent
	SessionID string
	Reason    LogoutReason
}

func NewUserLoggedOut(userID, sessionID string, reason LogoutReason) UserLoggedOut {
	return UserLoggedOut{
		baseEvent: newBaseEvent(userID),
		SessionID: sessionID,
		Reason:    reason,
	}
}

func (UserLoggedOut) EventName() string { return "UserLoggedOut" }

// TokenRefreshed records a token rotation, keeping both expiries to
// support clock-skew auditing.
type TokenRefreshed struct {
	baseEvent
	SessionID      string
	OldTokenExpiry time.Time
	NewTokenExpiry time.Time
}

func NewTokenRefreshed(userID, sessionID string, oldExpiry, newExpiry time.Time) TokenRefreshed {
	return TokenRefreshed{
		baseEvent:      newBaseEvent(userID),
		SessionID:      sessionID,
		OldTokenExpiry: oldExpiry,
		NewTokenExpiry: newExpiry,
	}
}

func (TokenRefreshed) EventName() string { return "TokenRefreshed" }
