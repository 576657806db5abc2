package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/authcrest/session-engine/internal/core/domain"
	"github.com/authcrest/session-engine/internal/core/ports"
)

// Auth validates the bearer access token and injects its identity
// claims into the request context. Refresh tokens are rejected here;
// they are only accepted by the refresh endpoint body.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			payload, err := tokens.VerifyToken(c.Request().Context(), parts[1], domain.TokenAccess)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", payload.UserID)
			c.Set("email", payload.Email)
			c.Set("session_id", payload.SessionID)

			return next(c)
		}
	}
}
