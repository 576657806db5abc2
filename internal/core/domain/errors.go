package domain

import "errors"

// Authentication errors. Unknown email and wrong password both map to
// ErrInvalidCredentials so callers cannot enumerate accounts.
var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountNotActive     = errors.New("account is not active")
	ErrSessionExpired       = errors.New("session has expired")
	ErrTokenExpired         = errors.New("token has expired")
	ErrInvalidToken         = errors.New("token is invalid")
	ErrEmailExists          = errors.New("email already exists")
	ErrNoActiveSession      = errors.New("no active session")
	ErrSessionCannotRefresh = errors.New("session cannot be refreshed")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// Construction errors for value objects.
var (
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrEmailTooLong      = errors.New("email too long")
	ErrWeakPassword      = errors.New("password does not meet policy")
	ErrPasswordNotHashed = errors.New("cannot verify unhashed password")
	ErrEmptyToken        = errors.New("token value cannot be empty")
	ErrTokenInPast       = errors.New("token cannot expire in the past")
	ErrEmptyID           = errors.New("identifier cannot be empty")
	ErrUserNotFound      = errors.New("user not found")
	ErrSessionNotFound   = errors.New("session not found")
)

// errorCodes maps domain errors to the stable machine-readable codes
// exposed to callers. The code, not the Go error identity, is the
// external contract.
var errorCodes = map[error]string{
	ErrInvalidCredentials:   "INVALID_CREDENTIALS",
	ErrAccountNotActive:     "ACCOUNT_NOT_ACTIVE",
	ErrSessionExpired:       "SESSION_EXPIRED",
	ErrTokenExpired:         "TOKEN_EXPIRED",
	ErrInvalidToken:         "INVALID_TOKEN",
	ErrEmailExists:          "EMAIL_ALREADY_EXISTS",
	ErrNoActiveSession:      "NO_ACTIVE_SESSION",
	ErrSessionCannotRefresh: "SESSION_CANNOT_REFRESH",
	ErrAuthenticationFailed: "AUTHENTICATION_FAILED",
}

// ErrorCode returns the stable code for a domain error, or
// AUTHENTICATION_FAILED for anything unrecognised.
func ErrorCode(err error) string {
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return "AUTHENTICATION_FAILED"
}
