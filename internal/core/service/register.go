package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

type registerUseCase struct {
	authRepo    ports.AuthRepository
	sessionRepo ports.SessionRepository
	tokens      ports.TokenService
	crypto      ports.CryptographyService
	bus         ports.EventBus
	audit       ports.AuditLogger
	log         zerolog.Logger
}

// NewRegisterUseCase returns the production RegisterUseCase implementation.
func NewRegisterUseCase(
	authRepo ports.AuthRepository,
	sessionRepo ports.SessionRepository,
	tokens ports.TokenService,
	crypto ports.CryptographyService,
	bus ports.EventBus,
	audit ports.AuditLogger,
	log zerolog.Logger,
) ports.RegisterUseCase {
	return &registerUseCase{
		authRepo:    authRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		crypto:      crypto,
		bus:         bus,
		audit:       audit,
		log:         log,
	}
}

// Execute creates the account and immediately establishes a session;
// the post-creation tail deliberately mirrors the login flow.
func (uc *registerUseCase) Execute(ctx context.Context, cmd ports.RegisterCommand) (*ports.AuthResult, error) {
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	exists, err := uc.authRepo.EmailExists(ctx, email)
	if err != nil {
		uc.log.Error().Err(err).Msg("email existence check failed")
		return nil, domain.ErrAuthenticationFailed
	}
	if exists {
		return nil, domain.ErrEmailExists
	}

	user, err := domain.NewUser(cmd.Email, cmd.Password, cmd.Name)
	if err != nil {
		return nil, err
	}

	if err := uc.authRepo.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, domain.ErrEmailExists
		}
		uc.log.Error().Err(err).Msg("user save failed")
		return nil, domain.ErrAuthenticationFailed
	}

	payload := ports.TokenPayload{
		UserID: user.ID().String(),
		Email:  user.Email().String(),
	}
	accessToken, err := uc.tokens.GenerateAccessToken(ctx, payload)
	if err != nil {
		return nil, uc.failClosed(err)
	}
	refreshToken, err := uc.tokens.GenerateRefreshToken(ctx, payload)
	if err != nil {
		return nil, uc.failClosed(err)
	}

	agg := domain.NewAuthenticationAggregate(user)
	if err := agg.Authenticate(cmd.Password, accessToken, refreshToken, cmd.UserAgent, cmd.IPAddress); err != nil {
		return nil, uc.failClosed(err)
	}

	session := agg.Session()

	if err := uc.authRepo.Update(ctx, user); err != nil {
		return nil, uc.failClosed(err)
	}
	if err := uc.sessionRepo.Save(ctx, session); err != nil {
		return nil, uc.failClosed(err)
	}

	hashedAccess, err := uc.crypto.HashForSession(ctx, accessToken.Value())
	if err != nil {
		return nil, uc.failClosed(err)
	}
	hashedRefresh, err := uc.crypto.HashForSession(ctx, refreshToken.Value())
	if err != nil {
		return nil, uc.failClosed(err)
	}

	if err := uc.bus.PublishMany(ctx, agg.DomainEvents()); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID().String()).Msg("event publish failed after registration")
	}
	agg.ClearDomainEvents()

	if err := uc.audit.LogLogin(ctx, user.ID().String(), session.ID().String(), map[string]any{
		"user_agent":   cmd.UserAgent,
		"ip_address":   cmd.IPAddress,
		"registration": true,
	}); err != nil {
		uc.log.Warn().Err(err).Msg("audit write failed after registration")
	}

	uc.log.Info().
		Str("user_id", user.ID().String()).
		Str("session_id", session.ID().String()).
		Msg("user registered")

	return &ports.AuthResult{
		User:               user,
		Session:            session,
		HashedAccessToken:  hashedAccess,
		HashedRefreshToken: hashedRefresh,
	}, nil
}

func (uc *registerUseCase) failClosed(cause error) error {
	uc.log.Error().Err(cause).Msg("registration failed on adapter error")
	return domain.ErrAuthenticationFailed
}
