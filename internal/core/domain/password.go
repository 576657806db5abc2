package domain

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	bcryptCost        = 12
)

// Password wraps a bcrypt hash. Plaintext is accepted once, at
// NewPassword or Verify, and discarded immediately. The two
// constructors are deliberately disjoint: a stored hash can never be
// re-interpreted as plaintext input.
type Password struct {
	hash string
}

// NewPassword validates the plaintext against the password policy and
// hashes it. The plaintext is not retained.
func NewPassword(plain string) (Password, error) {
	if err := checkPasswordPolicy(plain); err != nil {
		return Password{}, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return Password{}, err
	}
	return Password{hash: string(h)}, nil
}

// PasswordFromHash reconstitutes a Password from a stored bcrypt hash.
func PasswordFromHash(hash string) Password {
	return Password{hash: hash}
}

// Verify compares plaintext against the stored hash. A Password that
// holds no hash (the zero value) fails loudly rather than silently
// returning a match result.
func (p Password) Verify(plain string) (bool, error) {
	if p.hash == "" {
		return false, ErrPasswordNotHashed
	}
	err := bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plain))
	if err != nil {
		return false, nil
	}
	return true, nil
}

// Hash returns the bcrypt hash for persistence.
func (p Password) Hash() string {
	return p.hash
}

// checkPasswordPolicy enforces: at least 8 characters, one lowercase,
// one uppercase, one digit.
func checkPasswordPolicy(plain string) error {
	if len(plain) < minPasswordLength {
		return ErrWeakPassword
	}
	var lower, upper, digit bool
	for _, r := range plain {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return ErrWeakPassword
	}
	return nil
}
