package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/policy"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

// Cookie names shared with existing clients.
const (
	AccessCookie  = "AuthToken"
	RefreshCookie = "RefreshToken"
)

const callerKey = "caller"

// Identify resolves the caller on every request and stores it in the context.
// The AuthToken cookie is tried first, then a bearer header; the first token
// that authenticates wins. A missing or invalid token yields an anonymous
// caller; only a store failure aborts the request.
func Identify(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := policy.Anonymous()
			for _, raw := range accessTokens(c) {
				resolved, err := auth.Identify(c.Request().Context(), raw)
				if err != nil {
					return err
				}
				if !resolved.IsAnonymous() {
					caller = resolved
					break
				}
			}
			SetCaller(c, caller)
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous callers with domain.ErrAuthenticationRequired.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CallerFrom(c).IsAnonymous() {
				return domain.ErrAuthenticationRequired
			}
			return next(c)
		}
	}
}

// SetCaller stores caller on the request context.
func SetCaller(c echo.Context, caller policy.Caller) {
	c.Set(callerKey, caller)
}

// CallerFrom returns the caller stored by Identify, or an anonymous caller
// when the middleware did not run.
func CallerFrom(c echo.Context) policy.Caller {
	caller, _ := c.Get(callerKey).(policy.Caller)
	return caller
}

// accessTokens returns the non-empty AuthToken cookie followed by the bearer
// header token, skipping duplicates.
func accessTokens(c echo.Context) []string {
	var tokens []string
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		if raw := strings.TrimSpace(parts[1]); raw != "" && (len(tokens) == 0 || tokens[0] != raw) {
			tokens = append(tokens, raw)
		}
	}
	return tokens
}
