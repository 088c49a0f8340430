package ports

import (
	"context"

	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/policy"
)

// NoteInput carries the author-editable fields of a note. Empty Category and
// Visibility fall back to OTHERS and PRIVATE on create and are left unchanged
// on update.
type NoteInput struct {
	Title         string
	Overview      string
	Summary       string
	JSONQuestions string
	Category      domain.Category
	Visibility    domain.Visibility
}

type NoteService interface {
	Get(ctx context.Context, caller policy.Caller, id string) (*domain.Note, error)
	Create(ctx context.Context, caller policy.Caller, in NoteInput) (*domain.Note, error)
	Update(ctx context.Context, caller policy.Caller, id string, in NoteInput) (*domain.Note, error)
	Delete(ctx context.Context, caller policy.Caller, id string) error
	ShareByUsername(ctx context.Context, caller policy.Caller, id, username string) (*domain.Note, error)
}

type CommentService interface {
	List(ctx context.Context, caller policy.Caller, noteID string) ([]*domain.Comment, error)
	Create(ctx context.Context, caller policy.Caller, noteID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, caller policy.Caller, noteID, commentID string) error
}
