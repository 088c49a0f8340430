package handler

import (
	"time"

	"github.com/wrapitup/planner-auth/internal/core/domain"
)

// errorResponse documents the envelope rendered by the central error handler.
type errorResponse struct {
	Error string `json:"error"`
}

const (
	statusSuccess = "SUCCESS"
	statusFailure = "FAILURE"
)

// sessionResponse is the body of every login, refresh and logout call.
type sessionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Email    string        `json:"email,omitempty"`
	Roles    []domain.Role `json:"roles"`
	Status   string        `json:"status"`
}

func toUserResponse(u *domain.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []domain.Role{}
	}
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    roles,
		Status:   string(u.Status),
	}
}

type noteRequest struct {
	Title         string `json:"title"          validate:"required,max=200"`
	Overview      string `json:"overview"`
	Summary       string `json:"summary"`
	JSONQuestions string `json:"json_questions"`
	Category      string `json:"category"       validate:"omitempty,oneof=MATHS SCIENCE HISTORY ART LANGUAGES OTHERS"`
	Visibility    string `json:"visibility"     validate:"omitempty,oneof=PUBLIC PRIVATE"`
}

type shareRequest struct {
	Username string `json:"username" validate:"required"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"note_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	Reported  bool      `json:"reported"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		NoteID:    c.NoteID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		Reported:  c.Reported,
		CreatedAt: c.CreatedAt,
	}
}

func toCommentResponses(items []*domain.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCommentResponse(c))
	}
	return out
}

type reportedPageResponse struct {
	Items      []commentResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalPages int               `json:"total_pages"`
}
