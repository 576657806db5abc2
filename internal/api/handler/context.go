package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identity claims injected by the Auth
// middleware and performs a fast-fail check before any service call:
//   - user_id must be non-empty (presence proves the middleware ran).
//   - session_id must be non-empty; access tokens minted before the
//     session existed cannot address session-scoped endpoints.
func ctxIdentity(c echo.Context) (userID, sessionID string, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	sessionID, _ = c.Get("session_id").(string)
	if sessionID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing session identity")
	}

	return userID, sessionID, nil
}
