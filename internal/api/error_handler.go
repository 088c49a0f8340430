package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wrapitup/planner-auth/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type errorMapping struct {
	err  error
	code int
	msg  string
}

// Messages for authentication and permission failures stay generic so they
// never reveal whether a resource or account exists.
var errorMappings = []errorMapping{
	{domain.ErrAuthenticationRequired, http.StatusUnauthorized, "you must log in"},
	{domain.ErrInvalidCredential, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrPermissionDenied, http.StatusForbidden, "you do not have permission"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrNoteNotFound, http.StatusNotFound, "note not found"},
	{domain.ErrCommentNotFound, http.StatusNotFound, "comment not found"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many failed login attempts"},
}

// NewHTTPErrorHandler renders every error as {"error": "<message>"}. Domain
// errors map to fixed statuses; anything unrecognised is logged and becomes 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Msg
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.code, m.msg
		}
	}
	return http.StatusInternalServerError, "internal server error"
}
