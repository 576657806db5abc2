package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

type getCurrentUserUseCase struct {
	validate ports.ValidateSessionUseCase
	log      zerolog.Logger
}

// NewGetCurrentUserUseCase returns the production GetCurrentUserUseCase
// implementation. It delegates session checking to the validate use
// case so both paths share one notion of "live session".
func NewGetCurrentUserUseCase(
	validate ports.ValidateSessionUseCase,
	log zerolog.Logger,
) ports.GetCurrentUserUseCase {
	return &getCurrentUserUseCase{validate: validate, log: log}
}

// Execute resolves the user behind a live session. Unlike validation,
// an invalid session here is an error: the caller asked for an
// identity and there is none to give.
func (uc *getCurrentUserUseCase) Execute(ctx context.Context, query ports.GetCurrentUserQuery) (*domain.User, error) {
	validation, err := uc.validate.Execute(ctx, ports.ValidateSessionQuery{
		SessionID: query.SessionID,
		UserID:    query.UserID,
	})
	if err != nil {
		return nil, err
	}
	if !validation.IsValid {
		return nil, domain.ErrNoActiveSession
	}
	return validation.User, nil
}
