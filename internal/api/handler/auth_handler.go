package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wrapitup/planner-auth/internal/api/middleware"
	"github.com/wrapitup/planner-auth/internal/core/credential"
	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

// CookieConfig sets the attributes of the session cookies.
type CookieConfig struct {
	Secure bool
	Domain string
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a new ACTIVE account with the USER role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/user [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login verifies the password and sets the AuthToken and RefreshToken cookies.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  sessionResponse
// @Failure      429   {object}  sessionResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	session, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, sessionResponse{Status: statusFailure, Message: "invalid username or password"})
	case errors.Is(err, domain.ErrTooManyAttempts):
		return c.JSON(http.StatusTooManyRequests, sessionResponse{Status: statusFailure, Message: "too many failed attempts, try again later"})
	case err != nil:
		return err
	}

	h.setCookie(c, middleware.AccessCookie, session.Access)
	h.setCookie(c, middleware.RefreshCookie, session.Refresh)
	return c.JSON(http.StatusOK, sessionResponse{Status: statusSuccess, Message: "Login successful"})
}

// Refresh replaces the AuthToken cookie using the RefreshToken cookie. On
// failure no cookie is touched.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  sessionResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(middleware.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, sessionResponse{Status: statusFailure, Message: "refresh token missing"})
	}

	access, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	switch {
	case errors.Is(err, domain.ErrInvalidCredential):
		return c.JSON(http.StatusUnauthorized, sessionResponse{Status: statusFailure, Message: "refresh token invalid"})
	case err != nil:
		return err
	}

	h.setCookie(c, middleware.AccessCookie, access)
	return c.JSON(http.StatusOK, sessionResponse{Status: statusSuccess, Message: "Token refreshed"})
}

// Logout expires both session cookies. Issued tokens are not revoked.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearCookie(c, middleware.AccessCookie)
	h.clearCookie(c, middleware.RefreshCookie)
	return c.JSON(http.StatusOK, sessionResponse{Status: statusSuccess, Message: "Logout successful"})
}

func (h *AuthHandler) setCookie(c echo.Context, name string, cred credential.Credential) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    cred.Token,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   int(cred.TTL() / time.Second),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   -1, // net/http writes Max-Age=0 for negative values; 0 omits the attribute
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
