package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/authcrest/session-engine/internal/core/domain"
)

const (
	sessionKeyPrefix  = "session:"
	userSessionsIndex = "user_sessions:"
	scanBatch         = 100
)

// SessionRepository stores sessions as JSON values whose TTL is bound
// to the refresh-token expiry, so Redis itself reaps dead sessions.
// A per-user set indexes session ids for FindByUserID. Redis executes
// commands for one key serially, which gives the per-session write
// atomicity the core requires.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

type tokenDoc struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
	Type      string    `json:"type"`
}

type sessionDoc struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	AccessToken    tokenDoc  `json:"access_token"`
	RefreshToken   tokenDoc  `json:"refresh_token"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	UserAgent      string    `json:"user_agent,omitempty"`
	IPAddress      string    `json:"ip_address,omitempty"`
}

func toSessionDoc(s *domain.AuthSession) sessionDoc {
	return sessionDoc{
		ID:     s.ID().String(),
		UserID: s.UserID().String(),
		AccessToken: tokenDoc{
			Value:     s.AccessToken().Value(),
			ExpiresAt: s.AccessToken().ExpiresAt(),
			Type:      string(s.AccessToken().Type()),
		},
		RefreshToken: tokenDoc{
			Value:     s.RefreshToken().Value(),
			ExpiresAt: s.RefreshToken().ExpiresAt(),
			Type:      string(s.RefreshToken().Type()),
		},
		CreatedAt:      s.CreatedAt(),
		LastActivityAt: s.LastActivityAt(),
		UserAgent:      s.UserAgent(),
		IPAddress:      s.IPAddress(),
	}
}

func (d sessionDoc) toDomain() (*domain.AuthSession, error) {
	access, err := domain.ReconstituteToken(d.AccessToken.Value, d.AccessToken.ExpiresAt, domain.TokenType(d.AccessToken.Type))
	if err != nil {
		return nil, fmt.Errorf("session %s: access token: %w", d.ID, err)
	}
	refresh, err := domain.ReconstituteToken(d.RefreshToken.Value, d.RefreshToken.ExpiresAt, domain.TokenType(d.RefreshToken.Type))
	if err != nil {
		return nil, fmt.Errorf("session %s: refresh token: %w", d.ID, err)
	}
	return domain.ReconstituteAuthSession(d.ID, d.UserID, access, refresh, d.CreatedAt, d.LastActivityAt, d.UserAgent, d.IPAddress)
}

func (r *SessionRepository) FindByID(ctx context.Context, id domain.SessionID) (*domain.AuthSession, error) {
	raw, err := r.client.Get(ctx, sessionKey(id.String())).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var d sessionDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return d.toDomain()
}

func (r *SessionRepository) FindByUserID(ctx context.Context, userID domain.UserID) ([]*domain.AuthSession, error) {
	ids, err := r.client.SMembers(ctx, userIndexKey(userID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}

	sessions := make([]*domain.AuthSession, 0, len(ids))
	for _, id := range ids {
		raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			// Key expired; scrub the index entry.
			_ = r.client.SRem(ctx, userIndexKey(userID.String()), id).Err()
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get session %s: %w", id, err)
		}
		var d sessionDoc
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", id, err)
		}
		s, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.AuthSession) error {
	return r.write(ctx, session)
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.AuthSession) error {
	return r.write(ctx, session)
}

func (r *SessionRepository) write(ctx context.Context, session *domain.AuthSession) error {
	raw, err := json.Marshal(toSessionDoc(session))
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// The key lives exactly as long as the refresh token can still be
	// used; after that the session is unrecoverable anyway.
	ttl := time.Until(session.RefreshToken().ExpiresAt())
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID().String()), raw, ttl)
	pipe.SAdd(ctx, userIndexKey(session.UserID().String()), session.ID().String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Delete removes a session and its index entry. Deleting an absent
// session is not an error; logout must stay idempotent.
func (r *SessionRepository) Delete(ctx context.Context, id domain.SessionID) error {
	raw, err := r.client.Get(ctx, sessionKey(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get session for delete: %w", err)
	}

	var d sessionDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		// Undecodable record: remove the key anyway.
		return r.client.Del(ctx, sessionKey(id.String())).Err()
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id.String()))
	pipe.SRem(ctx, userIndexKey(d.UserID), id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteAllByUserID(ctx context.Context, userID domain.UserID) error {
	ids, err := r.client.SMembers(ctx, userIndexKey(userID.String())).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	pipe := r.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, sessionKey(id))
	}
	pipe.Del(ctx, userIndexKey(userID.String()))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

// CleanExpiredSessions scrubs index sets whose session keys have been
// reaped by TTL. Key expiry is the primary cleaner; this only keeps
// the per-user indexes from accumulating dead ids.
func (r *SessionRepository) CleanExpiredSessions(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, userSessionsIndex+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan session indexes: %w", err)
		}

		for _, indexKey := range keys {
			ids, err := r.client.SMembers(ctx, indexKey).Result()
			if err != nil {
				return fmt.Errorf("read session index %s: %w", indexKey, err)
			}
			for _, id := range ids {
				n, err := r.client.Exists(ctx, sessionKey(id)).Result()
				if err != nil {
					return fmt.Errorf("check session %s: %w", id, err)
				}
				if n == 0 {
					_ = r.client.SRem(ctx, indexKey, id).Err()
				}
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func userIndexKey(userID string) string {
	return userSessionsIndex + userID
}
