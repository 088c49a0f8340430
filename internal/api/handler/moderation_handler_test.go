package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wrapitup/planner-auth/internal/api/middleware"
	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/policy"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

type stubModerationService struct {
	ports.ModerationService
	reportFn func(ctx context.Context, caller policy.Caller, noteID, commentID string) (*domain.Comment, error)
	listFn   func(ctx context.Context, caller policy.Caller, page, size int) (*ports.CommentPage, error)
	banFn    func(ctx context.Context, caller policy.Caller, userID string) (*domain.User, error)
}

func (s *stubModerationService) ReportComment(ctx context.Context, caller policy.Caller, noteID, commentID string) (*domain.Comment, error) {
	return s.reportFn(ctx, caller, noteID, commentID)
}

func (s *stubModerationService) ListReported(ctx context.Context, caller policy.Caller, page, size int) (*ports.CommentPage, error) {
	return s.listFn(ctx, caller, page, size)
}

func (s *stubModerationService) BanUser(ctx context.Context, caller policy.Caller, userID string) (*domain.User, error) {
	return s.banFn(ctx, caller, userID)
}

func TestCommentHandler_Report(t *testing.T) {
	e := newTestEcho()
	stub := &stubModerationService{
		reportFn: func(_ context.Context, _ policy.Caller, noteID, commentID string) (*domain.Comment, error) {
			if noteID != "n1" || commentID != "c1" {
				t.Fatalf("unexpected ids %s %s", noteID, commentID)
			}
			return &domain.Comment{ID: "c1", NoteID: "n1", Reported: true}, nil
		},
	}
	h := NewCommentHandler(nil, stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.SetParamNames("id", "commentId")
	c.SetParamValues("n1", "c1")
	middleware.SetCaller(c, policy.Authenticated(&domain.User{ID: "u1"}))

	if err := h.Report(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["reported"] != true {
		t.Fatalf("expected reported=true, got %+v", resp)
	}
}

func TestModerationHandler_ListReported(t *testing.T) {
	e := newTestEcho()
	stub := &stubModerationService{
		listFn: func(_ context.Context, _ policy.Caller, page, size int) (*ports.CommentPage, error) {
			if page != 2 || size != 5 {
				t.Fatalf("unexpected paging %d/%d", page, size)
			}
			return &ports.CommentPage{
				Items: []*domain.Comment{{ID: "c1", Reported: true}},
				Total: 11,
				Page:  page,
				Size:  size,
			}, nil
		},
	}
	h := NewModerationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/admin/reported-comments?page=2&size=5", nil), rec)
	if err := h.ListReported(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp reportedPageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 11 || resp.TotalPages != 3 || len(resp.Items) != 1 {
		t.Fatalf("unexpected page: %+v", resp)
	}
}

func TestModerationHandler_ListReported_BadQuery(t *testing.T) {
	e := newTestEcho()
	h := NewModerationHandler(&stubModerationService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?page=abc", nil), httptest.NewRecorder())
	if err := h.ListReported(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestModerationHandler_Ban(t *testing.T) {
	e := newTestEcho()
	stub := &stubModerationService{
		banFn: func(_ context.Context, caller policy.Caller, userID string) (*domain.User, error) {
			if !caller.User().IsAdmin() {
				return nil, domain.ErrPermissionDenied
			}
			if userID != "u2" {
				return nil, domain.ErrUserNotFound
			}
			return &domain.User{ID: "u2", Username: "troll", Status: domain.StatusBanned}, nil
		},
	}
	h := NewModerationHandler(stub)

	call := func(caller *domain.User, id string) (*httptest.ResponseRecorder, error) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		middleware.SetCaller(c, policy.Authenticated(caller))
		return rec, h.Ban(c)
	}

	admin := &domain.User{ID: "a", Roles: []domain.Role{domain.RoleAdmin}}
	rec, err := call(admin, "u2")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != "BANNED" {
		t.Fatalf("expected BANNED, got %+v", resp)
	}

	if _, err := call(admin, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := call(&domain.User{ID: "u"}, "u2"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestUserHandler_Current(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(nil)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if err := h.Current(c); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}

	rec := httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	middleware.SetCaller(c, policy.Authenticated(&domain.User{ID: "u1", Username: "alice", Status: domain.StatusActive}))
	if err := h.Current(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ID != "u1" || resp.Username != "alice" || resp.Roles == nil {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

type stubUserService struct {
	getFn func(ctx context.Context, caller policy.Caller, id string) (*domain.User, error)
}

func (s *stubUserService) Get(ctx context.Context, caller policy.Caller, id string) (*domain.User, error) {
	return s.getFn(ctx, caller, id)
}

func TestUserHandler_Get(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		getFn: func(_ context.Context, caller policy.Caller, id string) (*domain.User, error) {
			if caller.ID() != id {
				return nil, domain.ErrPermissionDenied
			}
			return &domain.User{ID: id, Username: "alice", Status: domain.StatusActive}, nil
		},
	})

	call := func(callerID, id string) (*httptest.ResponseRecorder, error) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		middleware.SetCaller(c, policy.Authenticated(&domain.User{ID: callerID}))
		return rec, h.Get(c)
	}

	rec, err := call("u1", "u1")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Username != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	if _, err := call("u1", "u2"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}
