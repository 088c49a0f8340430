package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wrapitup/planner-auth/internal/api/middleware"
	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/policy"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

type stubNoteService struct {
	ports.NoteService
	getFn    func(ctx context.Context, caller policy.Caller, id string) (*domain.Note, error)
	createFn func(ctx context.Context, caller policy.Caller, in ports.NoteInput) (*domain.Note, error)
	shareFn  func(ctx context.Context, caller policy.Caller, id, username string) (*domain.Note, error)
}

func (s *stubNoteService) Get(ctx context.Context, caller policy.Caller, id string) (*domain.Note, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubNoteService) Create(ctx context.Context, caller policy.Caller, in ports.NoteInput) (*domain.Note, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubNoteService) ShareByUsername(ctx context.Context, caller policy.Caller, id, username string) (*domain.Note, error) {
	return s.shareFn(ctx, caller, id, username)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestNoteHandler_Get_PassesCallerAndID(t *testing.T) {
	e := newTestEcho()
	owner := &domain.User{ID: "u1", Username: "owner"}
	stub := &stubNoteService{
		getFn: func(_ context.Context, caller policy.Caller, id string) (*domain.Note, error) {
			if caller.ID() != "u1" || id != "n1" {
				t.Fatalf("unexpected args: %q %q", caller.ID(), id)
			}
			return &domain.Note{ID: "n1", OwnerID: "u1", Title: "Algebra", Visibility: domain.VisibilityPrivate}, nil
		},
	}
	h := NewNoteHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("n1")
	middleware.SetCaller(c, policy.Authenticated(owner))

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var note map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &note)
	if note["title"] != "Algebra" || note["visibility"] != "PRIVATE" {
		t.Fatalf("unexpected payload: %+v", note)
	}
}

func TestNoteHandler_Get_Denied(t *testing.T) {
	e := newTestEcho()
	stub := &stubNoteService{
		getFn: func(_ context.Context, caller policy.Caller, _ string) (*domain.Note, error) {
			if !caller.IsAnonymous() {
				t.Fatalf("expected anonymous caller without Identify")
			}
			return nil, domain.ErrAuthenticationRequired
		},
	}
	h := NewNoteHandler(stub)
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if err := h.Get(c); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestNoteHandler_Create(t *testing.T) {
	e := newTestEcho()
	stub := &stubNoteService{
		createFn: func(_ context.Context, _ policy.Caller, in ports.NoteInput) (*domain.Note, error) {
			if in.Title != "Cells" || in.Category != domain.CategoryScience || in.Visibility != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Note{ID: "n9", Title: in.Title, Category: in.Category, Visibility: domain.VisibilityPrivate}, nil
		},
	}
	h := NewNoteHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/notes", `{"title":"Cells","category":"SCIENCE"}`), rec)
	middleware.SetCaller(c, policy.Authenticated(&domain.User{ID: "u1"}))

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestNoteHandler_Create_Validation(t *testing.T) {
	e := newTestEcho()
	h := NewNoteHandler(&stubNoteService{
		createFn: func(context.Context, policy.Caller, ports.NoteInput) (*domain.Note, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	for name, body := range map[string]string{
		"missing title":      `{"summary":"x"}`,
		"unknown category":   `{"title":"x","category":"COOKING"}`,
		"unknown visibility": `{"title":"x","visibility":"FRIENDS"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/notes", body), httptest.NewRecorder())
			if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNoteHandler_Share(t *testing.T) {
	e := newTestEcho()
	stub := &stubNoteService{
		shareFn: func(_ context.Context, _ policy.Caller, id, username string) (*domain.Note, error) {
			if username == "me" {
				return nil, domain.NewValidationError("cannot share with yourself")
			}
			return &domain.Note{ID: id, SharedWith: []string{"u2"}}, nil
		},
	}
	h := NewNoteHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"username":"friend"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("n1")
	if err := h.Share(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/", `{"username":"me"}`), httptest.NewRecorder())
	err := h.Share(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Msg != "cannot share with yourself" {
		t.Fatalf("expected self-share rejection, got %v", err)
	}
}
