package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/core/ports"
)

// Store is the durable sink behind the audit logger.
type Store interface {
	Insert(ctx context.Context, entry ports.AuditEntry) error
}

// Logger writes every audit entry to the structured log and to the
// durable store. Store failures are logged and swallowed; losing one
// audit row must not fail the authentication operation it describes.
type Logger struct {
	store Store
	log   zerolog.Logger
}

func NewLogger(store Store, log zerolog.Logger) *Logger {
	return &Logger{store: store, log: log}
}

func (l *Logger) Log(ctx context.Context, entry ports.AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	l.log.Info().
		Str("action", entry.Action).
		Str("resource", entry.Resource).
		Str("user_id", entry.UserID).
		Str("session_id", entry.SessionID).
		Str("ip_address", entry.IPAddress).
		Msg("audit")

	if err := l.store.Insert(ctx, entry); err != nil {
		l.log.Warn().Err(err).Str("action", entry.Action).Msg("audit store write failed")
	}
	return nil
}

func (l *Logger) LogLogin(ctx context.Context, userID, sessionID string, metadata map[string]any) error {
	return l.Log(ctx, ports.AuditEntry{
		UserID:    userID,
		SessionID: sessionID,
		Action:    "LOGIN",
		Resource:  "AUTH",
		Metadata:  metadata,
	})
}

func (l *Logger) LogLogout(ctx context.Context, userID, sessionID string, reason string) error {
	return l.Log(ctx, ports.AuditEntry{
		UserID:    userID,
		SessionID: sessionID,
		Action:    "LOGOUT",
		Resource:  "AUTH",
		Metadata:  map[string]any{"reason": reason},
	})
}

func (l *Logger) LogFailedLogin(ctx context.Context, email, reason string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["email"] = email
	metadata["reason"] = reason
	return l.Log(ctx, ports.AuditEntry{
		Action:   "LOGIN_FAILED",
		Resource: "AUTH",
		Metadata: metadata,
	})
}
