package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"subsidy-intake/internal/usecase/auth"
)

const (
	SessionCookie = "session_id"
	LoginPath     = "/admin/login"

	ctxAdminID = "admin_user_id"
)

// Authenticator resolves a session token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uint64, error)
}

// RequireAdmin rejects requests without a live admin session.
func RequireAdmin(a Authenticator, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			if ck, err := c.Cookie(SessionCookie); err == nil {
				token = ck.Value
			}
			id, err := a.Authenticate(c.Request().Context(), token)
			switch {
			case errors.Is(err, auth.ErrUnauthenticated):
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":    "login required",
					"redirect": LoginPath,
				})
			case err != nil:
				log.WithError(err).Error("session lookup failed")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session store unavailable"})
			}
			c.Set(ctxAdminID, id)
			return next(c)
		}
	}
}

// AdminID returns the id stored by RequireAdmin, or 0 outside admin routes.
func AdminID(c echo.Context) uint64 {
	id, _ := c.Get(ctxAdminID).(uint64)
	return id
}
