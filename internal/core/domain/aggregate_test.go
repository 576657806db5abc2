package domain

import (
	"errors"
	"testing"
	"time"
)

func aggregateUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser("alice@example.com", "Secret123", "Alice")
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	return u
}

func TestAggregate_Authenticate(t *testing.T) {
	user := aggregateUser(t)
	agg := NewAuthenticationAggregate(user)

	err := agg.Authenticate("Secret123",
		liveToken(t, TokenAccess, 15*time.Minute),
		liveToken(t, TokenRefresh, 24*time.Hour),
		"agent", "10.0.0.1")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if !agg.IsAuthenticated() {
		t.Fatalf("expected authenticated aggregate")
	}
	if agg.Session().UserID() != user.ID() {
		t.Fatalf("session bound to wrong user")
	}
	if user.LastLoginAt().IsZero() {
		t.Fatalf("login not recorded")
	}

	events := agg.DomainEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	in, ok := events[0].(UserLoggedIn)
	if !ok {
		t.Fatalf("unexpected event type %T", events[0])
	}
	if in.AggregateID() != user.ID().String() || in.SessionID != agg.Session().ID().String() {
		t.Fatalf("event identity mismatch")
	}
}

func TestAggregate_AuthenticateWrongPassword(t *testing.T) {
	agg := NewAuthenticationAggregate(aggregateUser(t))

	err := agg.Authenticate("Wrong1234",
		liveToken(t, TokenAccess, 15*time.Minute),
		liveToken(t, TokenRefresh, 24*time.Hour),
		"", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if agg.Session() != nil {
		t.Fatalf("no session may exist after failed authentication")
	}
	if len(agg.DomainEvents()) != 0 {
		t.Fatalf("no events may be emitted on failure")
	}
}

func TestAggregate_AuthenticateInactiveAccount(t *testing.T) {
	active := aggregateUser(t)
	user, err := ReconstituteUser(active.ID().String(), "alice@example.com", active.PasswordHash(), "Alice",
		active.CreatedAt(), time.Time{}, false)
	if err != nil {
		t.Fatalf("reconstitute: %v", err)
	}

	agg := NewAuthenticationAggregate(user)
	err = agg.Authenticate("Secret123",
		liveToken(t, TokenAccess, 15*time.Minute),
		liveToken(t, TokenRefresh, 24*time.Hour),
		"", "")
	if !errors.Is(err, ErrAccountNotActive) {
		t.Fatalf("expected ErrAccountNotActive, got %v", err)
	}
}

func TestAggregate_RefreshTokens(t *testing.T) {
	user := aggregateUser(t)
	session := NewAuthSession(user.ID(),
		liveToken(t, TokenAccess, time.Minute),
		liveToken(t, TokenRefresh, 24*time.Hour), "", "")
	oldExpiry := session.AccessToken().ExpiresAt()

	agg := NewAuthenticationAggregateWithSession(user, session)
	newAccess := liveToken(t, TokenAccess, 15*time.Minute)
	if err := agg.RefreshTokens(newAccess, liveToken(t, TokenRefresh, 48*time.Hour)); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	events := agg.DomainEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	refreshed := events[0].(TokenRefreshed)
	if !refreshed.OldTokenExpiry.Equal(oldExpiry) {
		t.Fatalf("event lost the pre-rotation expiry")
	}
	if !refreshed.NewTokenExpiry.Equal(newAccess.ExpiresAt()) {
		t.Fatalf("event carries wrong new expiry")
	}
}

func TestAggregate_RefreshWithoutSession(t *testing.T) {
	agg := NewAuthenticationAggregate(aggregateUser(t))
	err := agg.RefreshTokens(liveToken(t, TokenAccess, time.Minute), liveToken(t, TokenRefresh, time.Hour))
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestAggregate_RefreshExhaustedSession(t *testing.T) {
	user := aggregateUser(t)
	session := NewAuthSession(user.ID(), expiredToken(t, TokenAccess), expiredToken(t, TokenRefresh), "", "")

	agg := NewAuthenticationAggregateWithSession(user, session)
	err := agg.RefreshTokens(liveToken(t, TokenAccess, time.Minute), liveToken(t, TokenRefresh, time.Hour))
	if !errors.Is(err, ErrSessionCannotRefresh) {
		t.Fatalf("expected ErrSessionCannotRefresh, got %v", err)
	}
}

func TestAggregate_Logout(t *testing.T) {
	user := aggregateUser(t)
	session := NewAuthSession(user.ID(),
		liveToken(t, TokenAccess, time.Minute),
		liveToken(t, TokenRefresh, time.Hour), "", "")
	sessionID := session.ID().String()

	agg := NewAuthenticationAggregateWithSession(user, session)
	if err := agg.Logout(LogoutSecurityViolation); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if agg.Session() != nil || agg.IsAuthenticated() {
		t.Fatalf("session must be cleared after logout")
	}

	events := agg.DomainEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	out := events[0].(UserLoggedOut)
	if out.SessionID != sessionID || out.Reason != LogoutSecurityViolation {
		t.Fatalf("event mismatch: %+v", out)
	}

	if err := agg.Logout(LogoutUserInitiated); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("second logout: expected ErrNoActiveSession, got %v", err)
	}
}

func TestAggregate_ClearDomainEvents(t *testing.T) {
	user := aggregateUser(t)
	agg := NewAuthenticationAggregate(user)
	_ = agg.Authenticate("Secret123",
		liveToken(t, TokenAccess, time.Minute),
		liveToken(t, TokenRefresh, time.Hour), "", "")

	drained := agg.DomainEvents()
	agg.ClearDomainEvents()
	if len(agg.DomainEvents()) != 0 {
		t.Fatalf("buffer not cleared")
	}
	if len(drained) != 1 {
		t.Fatalf("drained copy lost events")
	}
}
