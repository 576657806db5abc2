package ports

import (
	"context"

	"github.com/authcrest/session-engine/internal/core/domain"
)

// AuthRepository defines the interface for user persistence.
// Implementations map storage-not-found conditions to
// domain.ErrUserNotFound.
type AuthRepository interface {
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id domain.UserID) error
	EmailExists(ctx context.Context, email domain.Email) (bool, error)
}
