package ports

import "github.com/authcrest/session-engine/internal/core/domain"

// Commands and queries accepted by the use cases. Shape validation
// happens at the transport layer; the use cases re-validate the
// domain-relevant parts (email format, ids) on construction of value
// objects.

// LoginCommand carries one credential presentation.
type LoginCommand struct {
	Email      string
	Password   string
	UserAgent  string
	IPAddress  string
	RememberMe bool
}

// RegisterCommand creates an account and establishes a session.
type RegisterCommand struct {
	Email     string
	Password  string
	Name      string
	UserAgent string
	IPAddress string
}

// LogoutCommand terminates one session.
type LogoutCommand struct {
	SessionID string
	UserID    string
	Reason    domain.LogoutReason
}

// RefreshTokenCommand rotates the tokens of one session.
type RefreshTokenCommand struct {
	RefreshToken string
	SessionID    string
	UserAgent    string
	IPAddress    string
}

// ValidateSessionQuery asks whether a session is live for a user.
type ValidateSessionQuery struct {
	SessionID string
	UserID    string
}

// GetCurrentUserQuery resolves the user behind a live session.
type GetCurrentUserQuery struct {
	SessionID string
	UserID    string
}
