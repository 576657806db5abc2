package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewEmail_Normalizes(t *testing.T) {
	e, err := NewEmail("  Alice@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.String() != "alice@example.com" {
		t.Fatalf("expected normalized value, got %q", e.String())
	}
	if e.Domain() != "example.com" {
		t.Fatalf("expected domain example.com, got %q", e.Domain())
	}
}

func TestNewEmail_Rejects(t *testing.T) {
	cases := []string{"", "plain", "@nouser.com", "nodomain@", "spaces in@example.com", "two@@example.com", "noperiod@example"}
	for _, raw := range cases {
		if _, err := NewEmail(raw); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("%q: expected ErrInvalidEmail, got %v", raw, err)
		}
	}
}

func TestNewEmail_TooLong(t *testing.T) {
	long := strings.Repeat("a", 250) + "@example.com"
	if _, err := NewEmail(long); !errors.Is(err, ErrEmailTooLong) {
		t.Fatalf("expected ErrEmailTooLong, got %v", err)
	}
}

func TestEmail_Equals(t *testing.T) {
	a, _ := NewEmail("Alice@example.com")
	b, _ := NewEmail("alice@EXAMPLE.com")
	if !a.Equals(b) {
		t.Fatalf("case-insensitive addresses should be equal")
	}
}
