package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/core/ports"
)

type stubStore struct {
	entries []ports.AuditEntry
	err     error
}

func (s *stubStore) Insert(_ context.Context, entry ports.AuditEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func TestLogger_StampsTimestamp(t *testing.T) {
	store := &stubStore{}
	l := NewLogger(store, zerolog.Nop())

	if err := l.Log(context.Background(), ports.AuditEntry{Action: "LOGIN", Resource: "AUTH"}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(store.entries) != 1 {
		t.Fatalf("entry not stored")
	}
	if store.entries[0].Timestamp.IsZero() {
		t.Fatalf("timestamp not stamped")
	}
}

func TestLogger_StoreFailureIsSwallowed(t *testing.T) {
	store := &stubStore{err: errors.New("mongo down")}
	l := NewLogger(store, zerolog.Nop())

	if err := l.Log(context.Background(), ports.AuditEntry{Action: "LOGIN", Resource: "AUTH"}); err != nil {
		t.Fatalf("store failure must not surface: %v", err)
	}
}

func TestLogger_Helpers(t *testing.T) {
	store := &stubStore{}
	l := NewLogger(store, zerolog.Nop())
	ctx := context.Background()

	_ = l.LogLogin(ctx, "user-1", "sess-1", map[string]any{"remember_me": true})
	_ = l.LogLogout(ctx, "user-1", "sess-1", "user_initiated")
	_ = l.LogFailedLogin(ctx, "alice@example.com", "wrong password", nil)

	if len(store.entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(store.entries))
	}
	if store.entries[0].Action != "LOGIN" || store.entries[1].Action != "LOGOUT" || store.entries[2].Action != "LOGIN_FAILED" {
		t.Fatalf("unexpected actions: %+v", store.entries)
	}
	if store.entries[2].Metadata["email"] != "alice@example.com" {
		t.Fatalf("failed-login metadata missing email")
	}
}
