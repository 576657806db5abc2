package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

type stubValidateSession struct {
	validation ports.SessionValidation
	err        error
	query      ports.ValidateSessionQuery
}

func (s *stubValidateSession) Execute(_ context.Context, query ports.ValidateSessionQuery) (ports.SessionValidation, error) {
	s.query = query
	return s.validation, s.err
}

func TestGetCurrentUser_Success(t *testing.T) {
	user := newActiveUser(t, "alice@example.com", "Secret123")
	validate := &stubValidateSession{
		validation: ports.SessionValidation{IsValid: true, User: user},
	}
	uc := NewGetCurrentUserUseCase(validate, zerolog.Nop())

	got, err := uc.Execute(context.Background(), ports.GetCurrentUserQuery{
		SessionID: "sess-1",
		UserID:    user.ID().String(),
	})
	if err != nil {
		t.Fatalf("get current user: %v", err)
	}
	if got != user {
		t.Fatalf("unexpected user returned")
	}
	if validate.query.SessionID != "sess-1" || validate.query.UserID != user.ID().String() {
		t.Fatalf("query not forwarded: %+v", validate.query)
	}
}

func TestGetCurrentUser_InvalidSession(t *testing.T) {
	validate := &stubValidateSession{validation: ports.SessionValidation{IsValid: false}}
	uc := NewGetCurrentUserUseCase(validate, zerolog.Nop())

	_, err := uc.Execute(context.Background(), ports.GetCurrentUserQuery{
		SessionID: "sess-1",
		UserID:    "user-1",
	})
	if !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestGetCurrentUser_ValidationError(t *testing.T) {
	validate := &stubValidateSession{err: domain.ErrAuthenticationFailed}
	uc := NewGetCurrentUserUseCase(validate, zerolog.Nop())

	_, err := uc.Execute(context.Background(), ports.GetCurrentUserQuery{
		SessionID: "sess-1",
		UserID:    "user-1",
	})
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected validation error passthrough, got %v", err)
	}
}
