package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// JWTService signs and verifies HS256 tokens. The token type travels
// in the claims so an access token can never be replayed as a refresh
// token or vice versa.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a JWTService. Non-positive TTLs fall back to
// the defaults (15m access, 7d refresh).
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *JWTService) GenerateAccessToken(ctx context.Context, payload ports.TokenPayload) (domain.Token, error) {
	return s.generate(payload, domain.TokenAccess, s.accessTTL)
}

func (s *JWTService) GenerateRefreshToken(ctx context.Context, payload ports.TokenPayload) (domain.Token, error) {
	return s.generate(payload, domain.TokenRefresh, s.refreshTTL)
}

func (s *JWTService) generate(payload ports.TokenPayload, typ domain.TokenType, ttl time.Duration) (domain.Token, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub":        payload.UserID,
		"user_id":    payload.UserID,
		"email":      payload.Email,
		"session_id": payload.SessionID,
		"type":       string(typ),
		"iat":        now.Unix(),
		"exp":        expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.Token{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return domain.NewToken(signed, expiresAt, typ)
}

// VerifyToken checks signature, expiry and token type, and returns the
// embedded payload. Expiry maps to domain.ErrTokenExpired; every other
// failure, including a type mismatch, maps to domain.ErrInvalidToken.
func (s *JWTService) VerifyToken(ctx context.Context, value string, expectedType domain.TokenType) (ports.TokenPayload, error) {
	claims, err := s.parse(value)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.TokenPayload{}, domain.ErrTokenExpired
		}
		return ports.TokenPayload{}, domain.ErrInvalidToken
	}

	if typ, _ := claims["type"].(string); typ != string(expectedType) {
		return ports.TokenPayload{}, domain.ErrInvalidToken
	}
	return payloadFromClaims(claims), nil
}

// ExtractPayload reads the payload without enforcing expiry, for audit
// paths that need to know who an expired token belonged to. The
// signature is still verified.
func (s *JWTService) ExtractPayload(ctx context.Context, value string) (ports.TokenPayload, error) {
	claims, err := s.parse(value)
	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		return ports.TokenPayload{}, domain.ErrInvalidToken
	}
	return payloadFromClaims(claims), nil
}

// IsTokenExpired reports whether a structurally valid token has passed
// its expiry. Malformed tokens count as expired.
func (s *JWTService) IsTokenExpired(ctx context.Context, value string) bool {
	_, err := s.parse(value)
	return err != nil
}

func (s *JWTService) parse(value string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return claims, err
	}
	return claims, nil
}

func payloadFromClaims(claims jwt.MapClaims) ports.TokenPayload {
	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	sessionID, _ := claims["session_id"].(string)
	return ports.TokenPayload{UserID: userID, Email: email, SessionID: sessionID}
}
