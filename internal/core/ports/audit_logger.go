package ports

import (
	"context"
	"time"
)

// AuditEntry is one security-relevant record. Metadata never contains
// passwords or raw tokens.
type AuditEntry struct {
	UserID    string
	SessionID string
	Action    string
	Resource  string
	UserAgent string
	IPAddress string
	Metadata  map[string]any
	Timestamp time.Time
}

// AuditLogger records authentication activity. Implementations treat
// write failures as non-fatal to the calling use case.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditEntry) error
	LogLogin(ctx context.Context, userID, sessionID string, metadata map[string]any) error
	LogLogout(ctx context.Context, userID, sessionID, reason string) error
	LogFailedLogin(ctx context.Context, email, reason string, metadata map[string]any) error
}
