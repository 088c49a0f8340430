package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wrapitup/planner-auth/internal/core/credential"
	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/policy"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

type stubAuthService struct {
	ports.AuthService
	identifyFn func(ctx context.Context, raw string) (policy.Caller, error)
}

func (s *stubAuthService) Identify(ctx context.Context, raw string) (policy.Caller, error) {
	return s.identifyFn(ctx, raw)
}

func tokenAuth(valid string, u *domain.User) *stubAuthService {
	return &stubAuthService{identifyFn: func(_ context.Context, raw string) (policy.Caller, error) {
		if raw == valid {
			return policy.Authenticated(u), nil
		}
		return policy.Anonymous(), nil
	}}
}

func TestIdentify_Cookie(t *testing.T) {
	e := echo.New()
	alice := &domain.User{ID: "u1", Username: "alice", Roles: []domain.Role{domain.RoleUser}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "tok"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Identify(tokenAuth("tok", alice))(func(c echo.Context) error {
		called = true
		if CallerFrom(c).ID() != "u1" {
			t.Fatalf("caller not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestIdentify_BearerFallback(t *testing.T) {
	e := echo.New()
	alice := &domain.User{ID: "u1", Username: "alice"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Identify(tokenAuth("tok", alice))(func(c echo.Context) error {
		if CallerFrom(c).IsAnonymous() {
			t.Fatalf("expected bearer token to authenticate")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestIdentify_InvalidCookieFallsBackToBearer(t *testing.T) {
	e := echo.New()
	alice := &domain.User{ID: "u1", Username: "alice"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "stale"})
	req.Header.Set("Authorization", "Bearer tok")
	c := e.NewContext(req, httptest.NewRecorder())

	var seen []string
	auth := tokenAuth("tok", alice)
	inner := auth.identifyFn
	auth.identifyFn = func(ctx context.Context, raw string) (policy.Caller, error) {
		seen = append(seen, raw)
		return inner(ctx, raw)
	}

	handler := Identify(auth)(func(c echo.Context) error {
		if CallerFrom(c).ID() != "u1" {
			t.Fatalf("expected bearer token to authenticate after stale cookie")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(seen) != 2 || seen[0] != "stale" || seen[1] != "tok" {
		t.Fatalf("unexpected lookup order %v", seen)
	}
}

func TestIdentify_ValidCookieSkipsBearer(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "tok"})
	req.Header.Set("Authorization", "Bearer other")
	c := e.NewContext(req, httptest.NewRecorder())

	calls := 0
	auth := tokenAuth("tok", &domain.User{ID: "u1"})
	inner := auth.identifyFn
	auth.identifyFn = func(ctx context.Context, raw string) (policy.Caller, error) {
		calls++
		return inner(ctx, raw)
	}

	handler := Identify(auth)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one lookup, got %d", calls)
	}
}

func TestIdentify_InvalidTokenIsAnonymous(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "forged"})
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Identify(tokenAuth("tok", &domain.User{ID: "u1"}))(func(c echo.Context) error {
		if !CallerFrom(c).IsAnonymous() {
			t.Fatalf("expected anonymous caller")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("invalid token must not fail the request: %v", err)
	}
}

func TestIdentify_StoreError(t *testing.T) {
	e := echo.New()
	boom := errors.New("mongo down")
	auth := &stubAuthService{identifyFn: func(context.Context, string) (policy.Caller, error) {
		return policy.Anonymous(), boom
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "tok"})
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Identify(auth)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

// Wires the real codec to check that an issued token survives the cookie path.
func TestIdentify_WithCodec(t *testing.T) {
	codec, err := credential.NewCodec(credential.Config{Secret: "secret"})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	bob := &domain.User{ID: "u2", Username: "bob", Roles: []domain.Role{domain.RoleUser}}
	cred, _ := codec.Issue(bob, credential.KindAccess)

	auth := &stubAuthService{identifyFn: func(_ context.Context, raw string) (policy.Caller, error) {
		sub, err := codec.VerifyKind(raw, credential.KindAccess)
		if err != nil {
			return policy.Anonymous(), nil
		}
		return policy.Authenticated(&domain.User{ID: "u2", Username: sub.Username, Roles: sub.Roles}), nil
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: cred.Token})
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Identify(auth)(func(c echo.Context) error {
		if CallerFrom(c).User().Username != "bob" {
			t.Fatalf("unexpected caller %+v", CallerFrom(c).User())
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	handler := RequireAuth()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}

	c.Set(callerKey, policy.Authenticated(&domain.User{ID: "u1"}))
	called := false
	handler = RequireAuth()(func(c echo.Context) error {
		called = true
		return nil
	})
	if err := handler(c); err != nil || !called {
		t.Fatalf("expected pass-through, err=%v called=%v", err, called)
	}
}
