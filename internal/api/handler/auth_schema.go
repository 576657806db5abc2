package handler

import "github.com/authcrest/session-engine/internal/core/ports"

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
}

type loginRequest struct {
	Email      string `json:"email"    validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type refreshRequest struct {
	SessionID    string `json:"session_id"    validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type sessionResponse struct {
	Valid   bool              `json:"valid"`
	User    *ports.UserDTO    `json:"user,omitempty"`
	Session *ports.SessionDTO `json:"session,omitempty"`
}
