package domain

import "time"

// User models a registered principal. Fields are unexported so every
// mutation flows through behaviour that upholds the invariants;
// persistence adapters use ReconstituteUser and the getters.
type User struct {
	id          UserID
	email       Email
	password    Password
	name        string
	createdAt   time.Time
	lastLoginAt time.Time
	isActive    bool
}

// NewUser registers a user: the plaintext password is hashed
// immediately and never stored.
func NewUser(email, plainPassword, name string) (*User, error) {
	em, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	pw, err := NewPassword(plainPassword)
	if err != nil {
		return nil, err
	}
	return &User{
		id:        NewUserID(),
		email:     em,
		password:  pw,
		name:      name,
		createdAt: time.Now().UTC(),
		isActive:  true,
	}, nil
}

// ReconstituteUser rebuilds a User from storage. The password hash is
// taken as-is; no event is emitted.
func ReconstituteUser(id, email, passwordHash, name string, createdAt, lastLoginAt time.Time, isActive bool) (*User, error) {
	uid, err := ParseUserID(id)
	if err != nil {
		return nil, err
	}
	em, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	return &User{
		id:          uid,
		email:       em,
		password:    PasswordFromHash(passwordHash),
		name:        name,
		createdAt:   createdAt,
		lastLoginAt: lastLoginAt,
		isActive:    isActive,
	}, nil
}

// VerifyPassword checks plaintext against the stored hash.
func (u *User) VerifyPassword(plain string) (bool, error) {
	return u.password.Verify(plain)
}

// ChangeEmail replaces the address after validation.
func (u *User) ChangeEmail(newEmail string) error {
	em, err := NewEmail(newEmail)
	if err != nil {
		return err
	}
	u.email = em
	return nil
}

// ChangePassword verifies the current password before accepting a new
// one, which is validated against the policy and hashed.
func (u *User) ChangePassword(current, next string) error {
	ok, err := u.password.Verify(current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	pw, err := NewPassword(next)
	if err != nil {
		return err
	}
	u.password = pw
	return nil
}

// RecordLogin stamps the last successful authentication.
func (u *User) RecordLogin() {
	u.lastLoginAt = time.Now().UTC()
}

// CanAuthenticate reports whether the account may start sessions.
func (u *User) CanAuthenticate() bool {
	return u.isActive
}

func (u *User) ID() UserID             { return u.id }
func (u *User) Email() Email           { return u.email }
func (u *User) Name() string           { return u.name }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) LastLoginAt() time.Time { return u.lastLoginAt }
func (u *User) IsActive() bool         { return u.isActive }
func (u *User) PasswordHash() string   { return u.password.Hash() }
