package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

type loginUseCase struct {
	authRepo    ports.AuthRepository
	sessionRepo ports.SessionRepository
	tokens      ports.TokenService
	crypto      ports.CryptographyService
	bus         ports.EventBus
	audit       ports.AuditLogger
	attempts    ports.LoginAttemptTracker
	log         zerolog.Logger
}

// NewLoginUseCase returns the production LoginUseCase implementation.
func NewLoginUseCase(
	authRepo ports.AuthRepository,
	sessionRepo ports.SessionRepository,
	tokens ports.TokenService,
	crypto ports.CryptographyService,
	bus ports.EventBus,
	audit ports.AuditLogger,
	attempts ports.LoginAttemptTracker,
	log zerolog.Logger,
) ports.LoginUseCase {
	return &loginUseCase{
		authRepo:    authRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		crypto:      crypto,
		bus:         bus,
		audit:       audit,
		attempts:    attempts,
		log:         log,
	}
}

// Execute authenticates a credential presentation and establishes a
// session. Unknown email and wrong password surface the identical
// error so callers cannot enumerate accounts; unexpected adapter
// failures are audited and collapsed into ErrAuthenticationFailed.
func (uc *loginUseCase) Execute(ctx context.Context, cmd ports.LoginCommand) (*ports.AuthResult, error) {
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		uc.auditFailure(ctx, cmd.Email, "malformed email", cmd)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.authRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.recordFailedAttempt(ctx, email)
			uc.auditFailure(ctx, email.String(), "user not found", cmd)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, uc.failClosed(ctx, email.String(), cmd, err)
	}

	if !user.CanAuthenticate() {
		uc.auditFailure(ctx, email.String(), "account not active", cmd)
		return nil, domain.ErrAccountNotActive
	}

	agg := domain.NewAuthenticationAggregate(user)

	// Tokens are minted before the session exists; the sessionId claim
	// stays empty until the first refresh.
	payload := ports.TokenPayload{
		UserID: user.ID().String(),
		Email:  user.Email().String(),
	}
	accessToken, err := uc.tokens.GenerateAccessToken(ctx, payload)
	if err != nil {
		return nil, uc.failClosed(ctx, email.String(), cmd, err)
	}
	refreshToken, err := uc.tokens.GenerateRefreshToken(ctx, payload)
	if err != nil {
		return nil, uc.failClosed(ctx, email.String(), cmd, err)
	}

	if err := agg.Authenticate(cmd.Password, accessToken, refreshToken, cmd.UserAgent, cmd.IPAddress); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			uc.recordFailedAttempt(ctx, email)
			uc.auditFailure(ctx, email.String(), "invalid password", cmd)
			return nil, domain.ErrInvalidCredentials
		case errors.Is(err, domain.ErrAccountNotActive):
			uc.auditFailure(ctx, email.String(), "account not active", cmd)
			return nil, domain.ErrAccountNotActive
		default:
			return nil, uc.failClosed(ctx, email.String(), cmd, err)
		}
	}

	session := agg.Session()

	if err := uc.authRepo.Update(ctx, user); err != nil {
		return nil, uc.failClosed(ctx, email.String(), cmd, err)
	}
	if err := uc.sessionRepo.Save(ctx, session); err != nil {
		return nil, uc.failClosed(ctx, email.String(), cmd, err)
	}

	hashedAccess, err := uc.crypto.HashForSession(ctx, accessToken.Value())
	if err != nil {
		return nil, uc.failClosed(ctx, email.String(), cmd, err)
	}
	hashedRefresh, err := uc.crypto.HashForSession(ctx, refreshToken.Value())
	if err != nil {
		return nil, uc.failClosed(ctx, email.String(), cmd, err)
	}

	// Event delivery is fire-and-forget: the session write is already
	// committed and must not be rolled back by a publish failure.
	if err := uc.bus.PublishMany(ctx, agg.DomainEvents()); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID().String()).Msg("event publish failed after login")
	}
	agg.ClearDomainEvents()

	if err := uc.attempts.Reset(ctx, email.String()); err != nil {
		uc.log.Warn().Err(err).Msg("failed to reset login attempt counter")
	}

	if err := uc.audit.LogLogin(ctx, user.ID().String(), session.ID().String(), map[string]any{
		"user_agent":  cmd.UserAgent,
		"ip_address":  cmd.IPAddress,
		"remember_me": cmd.RememberMe,
	}); err != nil {
		uc.log.Warn().Err(err).Msg("audit write failed after login")
	}

	uc.log.Info().
		Str("user_id", user.ID().String()).
		Str("session_id", session.ID().String()).
		Msg("user logged in")

	return &ports.AuthResult{
		User:               user,
		Session:            session,
		HashedAccessToken:  hashedAccess,
		HashedRefreshToken: hashedRefresh,
	}, nil
}

func (uc *loginUseCase) recordFailedAttempt(ctx context.Context, email domain.Email) {
	if n, err := uc.attempts.RecordFailure(ctx, email.String()); err != nil {
		uc.log.Warn().Err(err).Msg("failed to record login attempt")
	} else if n > 1 {
		uc.log.Warn().Str("email_domain", email.Domain()).Int64("failures", n).Msg("repeated failed logins")
	}
}

func (uc *loginUseCase) auditFailure(ctx context.Context, email, reason string, cmd ports.LoginCommand) {
	if err := uc.audit.LogFailedLogin(ctx, email, reason, map[string]any{
		"user_agent": cmd.UserAgent,
		"ip_address": cmd.IPAddress,
	}); err != nil {
		uc.log.Warn().Err(err).Msg("audit write failed for login failure")
	}
}

// failClosed logs the real cause, audits the attempt, and returns the
// generic error so the caller cannot distinguish infrastructure
// failures from credential failures.
func (uc *loginUseCase) failClosed(ctx context.Context, email string, cmd ports.LoginCommand, cause error) error {
	uc.log.Error().Err(cause).Msg("login failed on adapter error")
	uc.auditFailure(ctx, email, "system error", cmd)
	return domain.ErrAuthenticationFailed
}
