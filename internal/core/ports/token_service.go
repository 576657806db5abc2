package ports

import (
	"context"

	"github.com/authcrest/session-engine/internal/core/domain"
)

// TokenPayload is the claim set carried by every issued token.
// SessionID is empty on tokens minted before the session exists
// (login/register) and populated on refresh.
type TokenPayload struct {
	UserID    string
	Email     string
	SessionID string
}

// TokenService mints and verifies signed bearer tokens. Verification
// failures map to domain.ErrInvalidToken or domain.ErrTokenExpired.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, payload TokenPayload) (domain.Token, error)
	GenerateRefreshToken(ctx context.Context, payload TokenPayload) (domain.Token, error)
	// VerifyToken checks signature, expiry and the token type claim.
	VerifyToken(ctx context.Context, value string, expectedType domain.TokenType) (TokenPayload, error)
	ExtractPayload(ctx context.Context, value string) (TokenPayload, error)
	IsTokenExpired(ctx context.Context, value string) bool
}
