package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultAttemptWindow = 15 * time.Minute

// AttemptTracker is the naive failed-login counter backed by Redis.
// Key format: login_attempts:<email>, expiring after the window so
// stale counts age out on their own.
type AttemptTracker struct {
	client *redis.Client
	window time.Duration
}

// NewAttemptTracker creates an AttemptTracker. A non-positive window
// falls back to the default.
func NewAttemptTracker(client *redis.Client, window time.Duration) *AttemptTracker {
	if window <= 0 {
		window = defaultAttemptWindow
	}
	return &AttemptTracker{client: client, window: window}
}

// RecordFailure increments the counter and returns the new count. The
// window restarts on every failure.
func (t *AttemptTracker) RecordFailure(ctx context.Context, email string) (int64, error) {
	key := t.key(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("record failed login: %w", err)
	}
	if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
		return n, fmt.Errorf("set attempt window: %w", err)
	}
	return n, nil
}

// Failures returns the current count inside the window.
func (t *AttemptTracker) Failures(ctx context.Context, email string) (int64, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read failed logins: %w", err)
	}
	return n, nil
}

// Reset clears the counter after a successful login.
func (t *AttemptTracker) Reset(ctx context.Context, email string) error {
	return t.client.Del(ctx, t.key(email)).Err()
}

func (t *AttemptTracker) key(email string) string {
	return "login_attempts:" + email
}
