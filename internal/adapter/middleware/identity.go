package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

// The gateway authenticates callers and forwards their identity; these are
// the headers it sets.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

const (
	ctxUserID   = "auth.user_id"
	ctxUserRole = "auth.user_role"
)

var reUUID = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)

// Identity lifts the forwarded caller identity into the echo context and
// rejects requests that arrive without one.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderUserID)))
			if userID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"status": "error", "message": "missing caller identity",
				})
			}
			if !reUUID.MatchString(userID) {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"status": "error", "message": "invalid caller identity",
				})
			}
			role := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderUserRole)))
			if role == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"status": "error", "message": "missing caller role",
				})
			}
			c.Set(ctxUserID, userID)
			c.Set(ctxUserRole, role)
			return next(c)
		}
	}
}

// CallerID returns the authenticated user id, empty when Identity did not run.
func CallerID(c echo.Context) string {
	if v, ok := c.Get(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// CallerRole returns the authenticated role, empty when Identity did not run.
func CallerRole(c echo.Context) string {
	if v, ok := c.Get(ctxUserRole).(string); ok {
		return v
	}
	return ""
}
