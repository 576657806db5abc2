package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewToken_RejectsEmptyAndPast(t *testing.T) {
	if _, err := NewToken("", time.Now().Add(time.Hour), TokenAccess); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
	if _, err := NewToken("   ", time.Now().Add(time.Hour), TokenAccess); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken for whitespace, got %v", err)
	}
	if _, err := NewToken("value", time.Now().Add(-time.Second), TokenAccess); !errors.Is(err, ErrTokenInPast) {
		t.Fatalf("expected ErrTokenInPast, got %v", err)
	}
}

func TestReconstituteToken_AllowsExpired(t *testing.T) {
	tok, err := ReconstituteToken("stored", time.Now().Add(-time.Hour), TokenRefresh)
	if err != nil {
		t.Fatalf("stored expired token must reconstitute: %v", err)
	}
	if !tok.IsExpired() {
		t.Fatalf("expected expired")
	}
	if tok.IsValid() {
		t.Fatalf("expired token reported valid")
	}
	if tok.RemainingTime() != 0 {
		t.Fatalf("remaining time of expired token must be zero, got %v", tok.RemainingTime())
	}

	if _, err := ReconstituteToken("", time.Now(), TokenRefresh); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
}

func TestToken_Accessors(t *testing.T) {
	expiry := time.Now().Add(30 * time.Minute)
	tok, err := NewToken("abc", expiry, TokenAccess)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if tok.Value() != "abc" || tok.Type() != TokenAccess || !tok.ExpiresAt().Equal(expiry) {
		t.Fatalf("accessor mismatch: %+v", tok)
	}
	if tok.RemainingTime() > 30*time.Minute {
		t.Fatalf("remaining time too large: %v", tok.RemainingTime())
	}
}
