package domain

import (
	"regexp"
	"strings"
)

const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email is a validated, normalised e-mail address. The zero value is
// invalid; construct via NewEmail.
type Email struct {
	value string
}

// NewEmail lower-cases and trims the input, then validates format and
// length. Invalid addresses are rejected here, never later.
func NewEmail(raw string) (Email, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(v) {
		return Email{}, ErrInvalidEmail
	}
	if len(v) > maxEmailLength {
		return Email{}, ErrEmailTooLong
	}
	return Email{value: v}, nil
}

func (e Email) String() string {
	return e.value
}

// Domain returns the part after the '@'.
func (e Email) Domain() string {
	i := strings.LastIndexByte(e.value, '@')
	return e.value[i+1:]
}

func (e Email) Equals(other Email) bool {
	return e.value == other.value
}
