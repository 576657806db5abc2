package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authcrest/session-engine/internal/api/metrics"
	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

// AuthHandler exposes the authentication lifecycle over HTTP. It only
// translates between the wire and the use-case commands; every
// decision lives in the core.
type AuthHandler struct {
	login       ports.LoginUseCase
	register    ports.RegisterUseCase
	logout      ports.LogoutUseCase
	refresh     ports.RefreshTokenUseCase
	validate    ports.ValidateSessionUseCase
	currentUser ports.GetCurrentUserUseCase
}

func NewAuthHandler(
	login ports.LoginUseCase,
	register ports.RegisterUseCase,
	logout ports.LogoutUseCase,
	refresh ports.RefreshTokenUseCase,
	validate ports.ValidateSessionUseCase,
	currentUser ports.GetCurrentUserUseCase,
) *AuthHandler {
	return &AuthHandler{
		login:       login,
		register:    register,
		logout:      logout,
		refresh:     refresh,
		validate:    validate,
		currentUser: currentUser,
	}
}

// Register creates a new account and opens its first session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  ports.AuthResultDTO
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid_input").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.register.Execute(c.Request().Context(), ports.RegisterCommand{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		UserAgent: c.Request().UserAgent(),
		IPAddress: c.RealIP(),
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, result.ToDTO())
}

// Login authenticates a credential pair and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.AuthResultDTO
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.login.Execute(c.Request().Context(), ports.LoginCommand{
		Email:      req.Email,
		Password:   req.Password,
		UserAgent:  c.Request().UserAgent(),
		IPAddress:  c.RealIP(),
		RememberMe: req.RememberMe,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, result.ToDTO())
}

// Logout terminates the caller's session. Always succeeds for an
// authenticated caller; logging out twice is not an error.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, sessionID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.logout.Execute(c.Request().Context(), ports.LogoutCommand{
		SessionID: sessionID,
		UserID:    userID,
		Reason:    domain.LogoutUserInitiated,
	}); err != nil {
		return err
	}

	metrics.LogoutsTotal.WithLabelValues(string(domain.LogoutUserInitiated)).Inc()
	return c.NoContent(http.StatusNoContent)
}

// Refresh rotates a session's token pair using its refresh token.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Session and refresh token"
// @Success      200   {object}  ports.AuthResultDTO
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.refresh.Execute(c.Request().Context(), ports.RefreshTokenCommand{
		RefreshToken: req.RefreshToken,
		SessionID:    req.SessionID,
		UserAgent:    c.Request().UserAgent(),
		IPAddress:    c.RealIP(),
	})
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues(refreshResult(err)).Inc()
		return err
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, result.ToDTO())
}

// Session reports whether the caller's session is still live and, when
// it is, returns the current user and session.
//
// @Summary      Current session
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	userID, sessionID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	validation, err := h.validate.Execute(c.Request().Context(), ports.ValidateSessionQuery{
		SessionID: sessionID,
		UserID:    userID,
	})
	if err != nil {
		return err
	}

	if !validation.IsValid {
		metrics.SessionsValidatedTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusOK, sessionResponse{Valid: false})
	}

	metrics.SessionsValidatedTotal.WithLabelValues("valid").Inc()
	user := ports.ToUserDTO(validation.User)
	session := ports.ToSessionDTO(validation.Session)
	return c.JSON(http.StatusOK, sessionResponse{Valid: true, User: &user, Session: &session})
}

// Me returns the authenticated caller's profile. Unlike Session it
// fails with 401 when the session is no longer live.
//
// @Summary      Current user
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  ports.UserDTO
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, sessionID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.currentUser.Execute(c.Request().Context(), ports.GetCurrentUserQuery{
		SessionID: sessionID,
		UserID:    userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.ToUserDTO(user))
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountNotActive):
		return "account_not_active"
	default:
		return "error"
	}
}

func registerResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailExists):
		return "email_exists"
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmailTooLong),
		errors.Is(err, domain.ErrWeakPassword):
		return "invalid_input"
	default:
		return "error"
	}
}

func refreshResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrSessionExpired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid"
	default:
		return "error"
	}
}
