package ports

import (
	"context"

	"github.com/authcrest/session-engine/internal/core/domain"
)

// SessionRepository defines persistence operations for auth sessions.
// Implementations must serialize writes per session id (the storage
// adapter owns atomicity; the core holds no locks).
type SessionRepository interface {
	FindByID(ctx context.Context, id domain.SessionID) (*domain.AuthSession, error)
	FindByUserID(ctx context.Context, userID domain.UserID) ([]*domain.AuthSession, error)
	Save(ctx context.Context, session *domain.AuthSession) error
	Update(ctx context.Context, session *domain.AuthSession) error
	Delete(ctx context.Context, id domain.SessionID) error
	DeleteAllByUserID(ctx context.Context, userID domain.UserID) error
	CleanExpiredSessions(ctx context.Context) error
}
