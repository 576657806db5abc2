package domain

import (
	"strings"
	"time"
)

// TokenType distinguishes the two bearer credential kinds.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Token is an immutable bearer credential with an expiry. Construction
// rejects empty values and past expiries, so a Token in hand is always
// well-formed.
type Token struct {
	value     string
	expiresAt time.Time
	typ       TokenType
}

// NewToken validates and constructs a Token.
func NewToken(value string, expiresAt time.Time, typ TokenType) (Token, error) {
	if strings.TrimSpace(value) == "" {
		return Token{}, ErrEmptyToken
	}
	if !expiresAt.After(time.Now()) {
		return Token{}, ErrTokenInPast
	}
	return Token{value: value, expiresAt: expiresAt, typ: typ}, nil
}

// ReconstituteToken rebuilds a Token from storage without the
// past-expiry check: a stored token may legitimately be expired, and
// expiry is what session validity checks inspect.
func ReconstituteToken(value string, expiresAt time.Time, typ TokenType) (Token, error) {
	if strings.TrimSpace(value) == "" {
		return Token{}, ErrEmptyToken
	}
	return Token{value: value, expiresAt: expiresAt, typ: typ}, nil
}

func (t Token) Value() string {
	return t.value
}

func (t Token) ExpiresAt() time.Time {
	return t.expiresAt
}

func (t Token) Type() TokenType {
	return t.typ
}

func (t Token) IsExpired() bool {
	return !time.Now().Before(t.expiresAt)
}

func (t Token) IsValid() bool {
	return !t.IsExpired()
}

// RemainingTime returns the duration until expiry, never negative.
func (t Token) RemainingTime() time.Duration {
	d := time.Until(t.expiresAt)
	if d < 0 {
		return 0
	}
	return d
}
