package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

type logoutUseCase struct {
	authRepo    ports.AuthRepository
	sessionRepo ports.SessionRepository
	bus         ports.EventBus
	audit       ports.AuditLogger
	log         zerolog.Logger
}

// NewLogoutUseCase returns the production LogoutUseCase implementation.
func NewLogoutUseCase(
	authRepo ports.AuthRepository,
	sessionRepo ports.SessionRepository,
	bus ports.EventBus,
	audit ports.AuditLogger,
	log zerolog.Logger,
) ports.LogoutUseCase {
	return &logoutUseCase{
		authRepo:    authRepo,
		sessionRepo: sessionRepo,
		bus:         bus,
		audit:       audit,
		log:         log,
	}
}

// Execute terminates a session. It is idempotent and fails open: a
// missing user or session means "already logged out", and backend
// failures are swallowed after best-effort audit so the transport can
// always clear client-side state. The persisted session is deleted
// before events are published, so no subscriber ever observes a
// UserLoggedOut event while the session still resolves as valid.
func (uc *logoutUseCase) Execute(ctx context.Context, cmd ports.LogoutCommand) error {
	userID, err := domain.ParseUserID(cmd.UserID)
	if err != nil {
		return nil
	}
	sessionID, err := domain.ParseSessionID(cmd.SessionID)
	if err != nil {
		return nil
	}

	user, err := uc.authRepo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			uc.log.Warn().Err(err).Str("user_id", cmd.UserID).Msg("user lookup failed during logout")
		}
		return nil
	}

	session, err := uc.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			uc.log.Warn().Err(err).Str("session_id", cmd.SessionID).Msg("session lookup failed during logout")
		}
		return nil
	}

	// Another user's session is not ours to terminate.
	if session.UserID() != userID {
		return nil
	}

	agg := domain.NewAuthenticationAggregateWithSession(user, session)
	if err := agg.Logout(cmd.Reason); err != nil {
		return nil
	}

	if err := uc.sessionRepo.Delete(ctx, sessionID); err != nil {
		uc.log.Warn().Err(err).Str("session_id", cmd.SessionID).Msg("session delete failed during logout")
	}

	if err := uc.bus.PublishMany(ctx, agg.DomainEvents()); err != nil {
		uc.log.Warn().Err(err).Msg("event publish failed during logout")
	}
	agg.ClearDomainEvents()

	if err := uc.audit.LogLogout(ctx, cmd.UserID, cmd.SessionID, string(cmd.Reason)); err != nil {
		uc.log.Warn().Err(err).Msg("audit write failed during logout")
	}

	uc.log.Info().
		Str("user_id", cmd.UserID).
		Str("session_id", cmd.SessionID).
		Str("reason", string(cmd.Reason)).
		Msg("user logged out")

	return nil
}
