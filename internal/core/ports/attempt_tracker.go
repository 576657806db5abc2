package ports

import "context"

// LoginAttemptTracker is the naive failed-attempt counter collaborator.
// Policy on the count (lockout, alerting) is outside the core; the use
// cases only record, read and reset.
type LoginAttemptTracker interface {
	RecordFailure(ctx context.Context, email string) (int64, error)
	Failures(ctx context.Context, email string) (int64, error)
	Reset(ctx context.Context, email string) error
}
