package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

type validateFixture struct {
	authRepo    *stubAuthRepo
	sessionRepo *stubSessionRepo
	uc          ports.ValidateSessionUseCase
}

func newValidateFixture() *validateFixture {
	f := &validateFixture{
		authRepo:    newStubAuthRepo(),
		sessionRepo: newStubSessionRepo(),
	}
	f.uc = NewValidateSessionUseCase(f.sessionRepo, f.authRepo, zerolog.Nop())
	return f
}

func TestValidateSession_Valid(t *testing.T) {
	f := newValidateFixture()
	user := newActiveUser(t, "alice@example.com", "Secret123")
	session := newLiveSession(t, user.ID())
	before := session.LastActivityAt()
	f.authRepo.add(user)
	f.sessionRepo.sessions[session.ID().String()] = session

	v, err := f.uc.Execute(context.Background(), ports.ValidateSessionQuery{
		SessionID: session.ID().String(),
		UserID:    user.ID().String(),
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !v.IsValid || v.User == nil || v.Session == nil {
		t.Fatalf("expected valid session, got %+v", v)
	}
	if session.LastActivityAt().Before(before) {
		t.Fatalf("activity stamp moved backwards")
	}
	if f.sessionRepo.updates != 1 {
		t.Fatalf("expected activity update write, got %d", f.sessionRepo.updates)
	}
}

func TestValidateSession_UnknownSession(t *testing.T) {
	f := newValidateFixture()

	v, err := f.uc.Execute(context.Background(), ports.ValidateSessionQuery{
		SessionID: domain.NewSessionID().String(),
		UserID:    domain.NewUserID().String(),
	})
	if err != nil {
		t.Fatalf("unknown session must not error, got %v", err)
	}
	if v.IsValid {
		t.Fatalf("unknown session reported valid")
	}
}

func TestValidateSession_UserMismatchDeletesNothing(t *testing.T) {
	f := newValidateFixture()
	owner := newActiveUser(t, "alice@example.com", "Secret123")
	session := newLiveSession(t, owner.ID())
	f.authRepo.add(owner)
	f.sessionRepo.sessions[session.ID().String()] = session

	v, err := f.uc.Execute(context.Background(), ports.ValidateSessionQuery{
		SessionID: session.ID().String(),
		UserID:    domain.NewUserID().String(),
	})
	if err != nil {
		t.Fatalf("mismatch must not error, got %v", err)
	}
	if v.IsValid {
		t.Fatalf("mismatched session reported valid")
	}
	if len(f.sessionRepo.deleted) != 0 {
		t.Fatalf("another user's session must not be deleted")
	}
}

func TestValidateSession_ExpiredSessionDeleted(t *testing.T) {
	f := newValidateFixture()
	user := newActiveUser(t, "alice@example.com", "Secret123")
	session := newExpiredSession(t, user.ID())
	f.authRepo.add(user)
	f.sessionRepo.sessions[session.ID().String()] = session

	v, err := f.uc.Execute(context.Background(), ports.ValidateSessionQuery{
		SessionID: session.ID().String(),
		UserID:    user.ID().String(),
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if v.IsValid {
		t.Fatalf("expired session reported valid")
	}
	if len(f.sessionRepo.deleted) != 1 {
		t.Fatalf("expired session should be cleaned up")
	}
}

func TestValidateSession_DeactivatedUser(t *testing.T) {
	f := newValidateFixture()
	user := newInactiveUser(t, "frozen@example.com")
	session := newLiveSession(t, user.ID())
	f.authRepo.add(user)
	f.sessionRepo.sessions[session.ID().String()] = session

	v, err := f.uc.Execute(context.Background(), ports.ValidateSessionQuery{
		SessionID: session.ID().String(),
		UserID:    user.ID().String(),
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if v.IsValid {
		t.Fatalf("session for deactivated user reported valid")
	}
	if len(f.sessionRepo.deleted) != 1 {
		t.Fatalf("session of deactivated user should be cleaned up")
	}
}

func TestValidateSession_MalformedIDs(t *testing.T) {
	f := newValidateFixture()

	v, err := f.uc.Execute(context.Background(), ports.ValidateSessionQuery{})
	if err != nil {
		t.Fatalf("blank ids must not error, got %v", err)
	}
	if v.IsValid {
		t.Fatalf("blank query reported valid")
	}
}

func TestValidateSession_LookupErrorFailsClosed(t *testing.T) {
	f := newValidateFixture()
	f.sessionRepo.findErr = errors.New("redis down")

	_, err := f.uc.Execute(context.Background(), ports.ValidateSessionQuery{
		SessionID: domain.NewSessionID().String(),
		UserID:    domain.NewUserID().String(),
	})
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestValidateSession_ActivityWriteFailureStillValid(t *testing.T) {
	f := newValidateFixture()
	user := newActiveUser(t, "alice@example.com", "Secret123")
	session := newLiveSession(t, user.ID())
	f.authRepo.add(user)
	f.sessionRepo.sessions[session.ID().String()] = session
	f.sessionRepo.updateErr = errors.New("redis down")

	v, err := f.uc.Execute(context.Background(), ports.ValidateSessionQuery{
		SessionID: session.ID().String(),
		UserID:    user.ID().String(),
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !v.IsValid {
		t.Fatalf("activity write failure must not invalidate the session")
	}
}
