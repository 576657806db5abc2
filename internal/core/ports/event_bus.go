package ports

import (
	"context"

	"github.com/authcrest/session-engine/internal/core/domain"
)

// EventBus delivers domain events to in-process subscribers.
// At-least-once within the process; delivery is fire-and-forget
// relative to the publishing use case.
type EventBus interface {
	Publish(ctx context.Context, event domain.DomainEvent) error
	PublishMany(ctx context.Context, events []domain.DomainEvent) error
}
