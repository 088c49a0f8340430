package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/wrapitup/planner-auth/internal/core/domain"
)

// RequireRole lets the request through when the caller holds any of roles.
// Anonymous callers get domain.ErrAuthenticationRequired, others
// domain.ErrPermissionDenied. Banned status is not checked here.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := CallerFrom(c)
			if caller.IsAnonymous() {
				return domain.ErrAuthenticationRequired
			}
			for _, r := range roles {
				if caller.User().HasRole(r) {
					return next(c)
				}
			}
			return domain.ErrPermissionDenied
		}
	}
}
