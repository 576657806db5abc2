package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

type validateSessionUseCase struct {
	sessionRepo ports.SessionRepository
	authRepo    ports.AuthRepository
	log         zerolog.Logger
}

// NewValidateSessionUseCase returns the production
// ValidateSessionUseCase implementation.
func NewValidateSessionUseCase(
	sessionRepo ports.SessionRepository,
	authRepo ports.AuthRepository,
	log zerolog.Logger,
) ports.ValidateSessionUseCase {
	return &validateSessionUseCase{
		sessionRepo: sessionRepo,
		authRepo:    authRepo,
		log:         log,
	}
}

// Execute answers whether a session is live for the given user. "Not
// valid" is a structured result, never an error. Check order: the
// session must exist and belong to the queried user (an id mismatch
// deletes nothing — another user's session is not ours to clean),
// then the session must be unexpired, then the user must still exist
// and be able to authenticate. Stale records found along the way are
// deleted so invalid sessions do not linger.
func (uc *validateSessionUseCase) Execute(ctx context.Context, query ports.ValidateSessionQuery) (ports.SessionValidation, error) {
	sessionID, err := domain.ParseSessionID(query.SessionID)
	if err != nil {
		return ports.SessionValidation{}, nil
	}
	userID, err := domain.ParseUserID(query.UserID)
	if err != nil {
		return ports.SessionValidation{}, nil
	}

	session, err := uc.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return ports.SessionValidation{}, nil
		}
		uc.log.Error().Err(err).Msg("session lookup failed during validation")
		return ports.SessionValidation{}, domain.ErrAuthenticationFailed
	}

	if session.UserID() != userID {
		return ports.SessionValidation{}, nil
	}

	if !session.IsValid() {
		uc.deleteStale(ctx, sessionID)
		return ports.SessionValidation{}, nil
	}

	user, err := uc.authRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.deleteStale(ctx, sessionID)
			return ports.SessionValidation{}, nil
		}
		uc.log.Error().Err(err).Msg("user lookup failed during validation")
		return ports.SessionValidation{}, domain.ErrAuthenticationFailed
	}

	if !user.CanAuthenticate() {
		uc.deleteStale(ctx, sessionID)
		return ports.SessionValidation{}, nil
	}

	session.UpdateActivity()
	if err := uc.sessionRepo.Update(ctx, session); err != nil {
		// The session itself is valid; a failed activity stamp does
		// not invalidate it.
		uc.log.Warn().Err(err).Str("session_id", session.ID().String()).Msg("activity update failed during validation")
	}

	return ports.SessionValidation{IsValid: true, User: user, Session: session}, nil
}

func (uc *validateSessionUseCase) deleteStale(ctx context.Context, id domain.SessionID) {
	if err := uc.sessionRepo.Delete(ctx, id); err != nil {
		uc.log.Warn().Err(err).Str("session_id", id.String()).Msg("stale session delete failed")
	}
}
