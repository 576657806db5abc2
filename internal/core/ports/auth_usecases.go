package ports

import (
	"context"

	"github.com/authcrest/session-engine/internal/core/domain"
)

// Use-case contracts the transport layer depends on. One production
// implementation each lives in internal/core/service.

type LoginUseCase interface {
	Execute(ctx context.Context, cmd LoginCommand) (*AuthResult, error)
}

type RegisterUseCase interface {
	Execute(ctx context.Context, cmd RegisterCommand) (*AuthResult, error)
}

type LogoutUseCase interface {
	Execute(ctx context.Context, cmd LogoutCommand) error
}

type RefreshTokenUseCase interface {
	Execute(ctx context.Context, cmd RefreshTokenCommand) (*AuthResult, error)
}

type ValidateSessionUseCase interface {
	Execute(ctx context.Context, query ValidateSessionQuery) (SessionValidation, error)
}

type GetCurrentUserUseCase interface {
	Execute(ctx context.Context, query GetCurrentUserQuery) (*domain.User, error)
}
