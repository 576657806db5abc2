package ports

import (
	"time"

	"github.com/authcrest/session-engine/internal/core/domain"
)

// AuthResult is returned by login, register and refresh. It carries the
// entities plus session-hashed token echoes; raw signed tokens never
// leave the core.
type AuthResult struct {
	User               *domain.User
	Session            *domain.AuthSession
	HashedAccessToken  string
	HashedRefreshToken string
}

// UserDTO is the externally visible user shape.
type UserDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at,omitempty"`
}

// SessionDTO is the externally visible session shape.
type SessionDTO struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// TokensDTO echoes the hashed token forms handed to the transport.
type TokensDTO struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResultDTO is the wire form of an AuthResult.
type AuthResultDTO struct {
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
	Tokens  TokensDTO  `json:"tokens"`
}

// ToDTO flattens the result for the transport layer.
func (r AuthResult) ToDTO() AuthResultDTO {
	return AuthResultDTO{
		User:    ToUserDTO(r.User),
		Session: ToSessionDTO(r.Session),
		Tokens: TokensDTO{
			AccessToken:  r.HashedAccessToken,
			RefreshToken: r.HashedRefreshToken,
			ExpiresAt:    r.Session.AccessToken().ExpiresAt(),
		},
	}
}

// ToUserDTO maps a user entity to its wire form.
func ToUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID().String(),
		Email:       u.Email().String(),
		Name:        u.Name(),
		CreatedAt:   u.CreatedAt(),
		LastLoginAt: u.LastLoginAt(),
	}
}

// ToSessionDTO maps a session entity to its wire form.
func ToSessionDTO(s *domain.AuthSession) SessionDTO {
	return SessionDTO{
		ID:             s.ID().String(),
		CreatedAt:      s.CreatedAt(),
		LastActivityAt: s.LastActivityAt(),
		ExpiresAt:      s.AccessToken().ExpiresAt(),
	}
}

// SessionValidation is the structured outcome of ValidateSession; it is
// never an error for the "not valid" case.
type SessionValidation struct {
	IsValid bool
	User    *domain.User
	Session *domain.AuthSession
}
