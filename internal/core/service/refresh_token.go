package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

type refreshTokenUseCase struct {
	authRepo    ports.AuthRepository
	sessionRepo ports.SessionRepository
	tokens      ports.TokenService
	crypto      ports.CryptographyService
	bus         ports.EventBus
	audit       ports.AuditLogger
	log         zerolog.Logger
}

// NewRefreshTokenUseCase returns the production RefreshTokenUseCase
// implementation.
func NewRefreshTokenUseCase(
	authRepo ports.AuthRepository,
	sessionRepo ports.SessionRepository,
	tokens ports.TokenService,
	crypto ports.CryptographyService,
	bus ports.EventBus,
	audit ports.AuditLogger,
	log zerolog.Logger,
) ports.RefreshTokenUseCase {
	return &refreshTokenUseCase{
		authRepo:    authRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		crypto:      crypto,
		bus:         bus,
		audit:       audit,
		log:         log,
	}
}

// Execute rotates a session's tokens. The presented refresh token must
// itself verify (signature and type) before anything is minted: a
// session record existing is not proof the bearer is legitimate. The
// session is left untouched on any verification failure.
func (uc *refreshTokenUseCase) Execute(ctx context.Context, cmd ports.RefreshTokenCommand) (*ports.AuthResult, error) {
	sessionID, err := domain.ParseSessionID(cmd.SessionID)
	if err != nil {
		return nil, domain.ErrSessionExpired
	}

	session, err := uc.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionExpired
		}
		return nil, uc.failClosed(err)
	}

	if !session.CanRefresh() {
		return nil, domain.ErrTokenExpired
	}

	if _, err := uc.tokens.VerifyToken(ctx, cmd.RefreshToken, domain.TokenRefresh); err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	user, err := uc.authRepo.FindByID(ctx, session.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionExpired
		}
		return nil, uc.failClosed(err)
	}

	agg := domain.NewAuthenticationAggregateWithSession(user, session)

	payload := ports.TokenPayload{
		UserID:    user.ID().String(),
		Email:     user.Email().String(),
		SessionID: session.ID().String(),
	}
	newAccessToken, err := uc.tokens.GenerateAccessToken(ctx, payload)
	if err != nil {
		return nil, uc.failClosed(err)
	}
	newRefreshToken, err := uc.tokens.GenerateRefreshToken(ctx, payload)
	if err != nil {
		return nil, uc.failClosed(err)
	}

	if err := agg.RefreshTokens(newAccessToken, newRefreshToken); err != nil {
		if errors.Is(err, domain.ErrSessionCannotRefresh) {
			return nil, domain.ErrTokenExpired
		}
		return nil, uc.failClosed(err)
	}

	if err := uc.sessionRepo.Update(ctx, session); err != nil {
		return nil, uc.failClosed(err)
	}

	hashedAccess, err := uc.crypto.HashForSession(ctx, newAccessToken.Value())
	if err != nil {
		return nil, uc.failClosed(err)
	}
	hashedRefresh, err := uc.crypto.HashForSession(ctx, newRefreshToken.Value())
	if err != nil {
		return nil, uc.failClosed(err)
	}

	if err := uc.bus.PublishMany(ctx, agg.DomainEvents()); err != nil {
		uc.log.Warn().Err(err).Str("session_id", session.ID().String()).Msg("event publish failed after refresh")
	}
	agg.ClearDomainEvents()

	if err := uc.audit.Log(ctx, ports.AuditEntry{
		UserID:    user.ID().String(),
		SessionID: session.ID().String(),
		Action:    "TOKEN_REFRESH",
		Resource:  "AUTH",
		UserAgent: cmd.UserAgent,
		IPAddress: cmd.IPAddress,
	}); err != nil {
		uc.log.Warn().Err(err).Msg("audit write failed after refresh")
	}

	uc.log.Info().
		Str("user_id", user.ID().String()).
		Str("session_id", session.ID().String()).
		Msg("tokens refreshed")

	return &ports.AuthResult{
		User:               user,
		Session:            session,
		HashedAccessToken:  hashedAccess,
		HashedRefreshToken: hashedRefresh,
	}, nil
}

func (uc *refreshTokenUseCase) failClosed(cause error) error {
	uc.log.Error().Err(cause).Msg("token refresh failed on adapter error")
	return domain.ErrAuthenticationFailed
}
