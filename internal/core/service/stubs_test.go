package service

import (
	"context"
	"fmt"
	"time"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

// Shared in-memory port implementations for the use-case tests. Every
// stub records enough of what happened for tests to assert on ordering
// and side effects.

type stubAuthRepo struct {
	users      map[string]*domain.User // keyed by user id
	findErr    error
	saveErr    error
	updateErr  error
	existsErr  error
	updated    []string
	saved      []string
	emailIndex map[string]string // email -> user id
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{
		users:      make(map[string]*domain.User),
		emailIndex: make(map[string]string),
	}
}

func (r *stubAuthRepo) add(u *domain.User) {
	r.users[u.ID().String()] = u
	r.emailIndex[u.Email().String()] = u.ID().String()
}

func (r *stubAuthRepo) FindByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id.String()]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email domain.Email) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	id, ok := r.emailIndex[email.String()]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.users[id], nil
}

func (r *stubAuthRepo) Save(_ context.Context, user *domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, exists := r.emailIndex[user.Email().String()]; exists {
		return domain.ErrEmailExists
	}
	r.add(user)
	r.saved = append(r.saved, user.ID().String())
	return nil
}

func (r *stubAuthRepo) Update(_ context.Context, user *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.users[user.ID().String()]; !ok {
		return domain.ErrUserNotFound
	}
	r.add(user)
	r.updated = append(r.updated, user.ID().String())
	return nil
}

func (r *stubAuthRepo) Delete(_ context.Context, id domain.UserID) error {
	u, ok := r.users[id.String()]
	if ok {
		delete(r.emailIndex, u.Email().String())
		delete(r.users, id.String())
	}
	return nil
}

func (r *stubAuthRepo) EmailExists(_ context.Context, email domain.Email) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.emailIndex[email.String()]
	return ok, nil
}

type stubSessionRepo struct {
	sessions  map[string]*domain.AuthSession
	findErr   error
	saveErr   error
	updateErr error
	deleteErr error
	deleted   []string
	updates   int
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*domain.AuthSession)}
}

func (r *stubSessionRepo) FindByID(_ context.Context, id domain.SessionID) (*domain.AuthSession, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.sessions[id.String()]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (r *stubSessionRepo) FindByUserID(_ context.Context, userID domain.UserID) ([]*domain.AuthSession, error) {
	var out []*domain.AuthSession
	for _, s := range r.sessions {
		if s.UserID() == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSessionRepo) Save(_ context.Context, session *domain.AuthSession) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.sessions[session.ID().String()] = session
	return nil
}

func (r *stubSessionRepo) Update(_ context.Context, session *domain.AuthSession) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.sessions[session.ID().String()] = session
	r.updates++
	return nil
}

func (r *stubSessionRepo) Delete(_ context.Context, id domain.SessionID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.sessions, id.String())
	r.deleted = append(r.deleted, id.String())
	return nil
}

func (r *stubSessionRepo) DeleteAllByUserID(_ context.Context, userID domain.UserID) error {
	for id, s := range r.sessions {
		if s.UserID() == userID {
			delete(r.sessions, id)
			r.deleted = append(r.deleted, id)
		}
	}
	return nil
}

func (r *stubSessionRepo) CleanExpiredSessions(_ context.Context) error {
	return nil
}

type stubTokenService struct {
	counter     int
	generateErr error
	verifyErr   error
	verified    []string
}

func (s *stubTokenService) mint(typ domain.TokenType, payload ports.TokenPayload, ttl time.Duration) (domain.Token, error) {
	if s.generateErr != nil {
		return domain.Token{}, s.generateErr
	}
	s.counter++
	value := fmt.Sprintf("%s-token-%d-%s", typ, s.counter, payload.UserID)
	return domain.NewToken(value, time.Now().Add(ttl), typ)
}

func (s *stubTokenService) GenerateAccessToken(_ context.Context, payload ports.TokenPayload) (domain.Token, error) {
	return s.mint(domain.TokenAccess, payload, 15*time.Minute)
}

func (s *stubTokenService) GenerateRefreshToken(_ context.Context, payload ports.TokenPayload) (domain.Token, error) {
	return s.mint(domain.TokenRefresh, payload, 7*24*time.Hour)
}

func (s *stubTokenService) VerifyToken(_ context.Context, value string, _ domain.TokenType) (ports.TokenPayload, error) {
	if s.verifyErr != nil {
		return ports.TokenPayload{}, s.verifyErr
	}
	s.verified = append(s.verified, value)
	return ports.TokenPayload{}, nil
}

func (s *stubTokenService) ExtractPayload(_ context.Context, _ string) (ports.TokenPayload, error) {
	return ports.TokenPayload{}, nil
}

func (s *stubTokenService) IsTokenExpired(_ context.Context, _ string) bool {
	return false
}

type stubCrypto struct {
	hashErr error
}

func (s *stubCrypto) HashForSession(_ context.Context, data string) (string, error) {
	if s.hashErr != nil {
		return "", s.hashErr
	}
	return "hashed:" + data, nil
}

func (s *stubCrypto) VerifySessionHash(_ context.Context, data, hash string) (bool, error) {
	return "hashed:"+data == hash, nil
}

func (s *stubCrypto) GenerateSecureRandom(length int) (string, error) {
	return fmt.Sprintf("random-%d", length), nil
}

func (s *stubCrypto) Encrypt(_ context.Context, data, _ string) (string, error) {
	return "enc:" + data, nil
}

func (s *stubCrypto) Decrypt(_ context.Context, encrypted, _ string) (string, error) {
	return encrypted[len("enc:"):], nil
}

type stubEventBus struct {
	published  []domain.DomainEvent
	publishErr error
}

func (b *stubEventBus) Publish(_ context.Context, event domain.DomainEvent) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, event)
	return nil
}

func (b *stubEventBus) PublishMany(ctx context.Context, events []domain.DomainEvent) error {
	for _, e := range events {
		if err := b.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (b *stubEventBus) names() []string {
	out := make([]string, len(b.published))
	for i, e := range b.published {
		out[i] = e.EventName()
	}
	return out
}

type stubAuditLogger struct {
	entries []ports.AuditEntry
}

func (l *stubAuditLogger) Log(_ context.Context, entry ports.AuditEntry) error {
	l.entries = append(l.entries, entry)
	return nil
}

func (l *stubAuditLogger) LogLogin(ctx context.Context, userID, sessionID string, metadata map[string]any) error {
	return l.Log(ctx, ports.AuditEntry{UserID: userID, SessionID: sessionID, Action: "LOGIN", Resource: "AUTH", Metadata: metadata})
}

func (l *stubAuditLogger) LogLogout(ctx context.Context, userID, sessionID, reason string) error {
	return l.Log(ctx, ports.AuditEntry{UserID: userID, SessionID: sessionID, Action: "LOGOUT", Resource: "AUTH", Metadata: map[string]any{"reason": reason}})
}

func (l *stubAuditLogger) LogFailedLogin(ctx context.Context, email, reason string, metadata map[string]any) error {
	return l.Log(ctx, ports.AuditEntry{Action: "LOGIN_FAILED", Resource: "AUTH", Metadata: map[string]any{"email": email, "reason": reason}})
}

func (l *stubAuditLogger) actions() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Action
	}
	return out
}

type stubAttemptTracker struct {
	failures map[string]int64
	resets   []string
}

func newStubAttemptTracker() *stubAttemptTracker {
	return &stubAttemptTracker{failures: make(map[string]int64)}
}

func (t *stubAttemptTracker) RecordFailure(_ context.Context, email string) (int64, error) {
	t.failures[email]++
	return t.failures[email], nil
}

func (t *stubAttemptTracker) Failures(_ context.Context, email string) (int64, error) {
	return t.failures[email], nil
}

func (t *stubAttemptTracker) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	t.resets = append(t.resets, email)
	return nil
}
