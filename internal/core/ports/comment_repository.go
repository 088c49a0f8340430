package ports

import (
	"context"

	"github.com/wrapitup/planner-auth/internal/core/domain"
)

// CommentRepository persists comments. FindByID returns
// domain.ErrCommentNotFound when absent.
type CommentRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByNote(ctx context.Context, noteID string) ([]*domain.Comment, error)
	// ListReported returns one page of reported comments and the total count.
	// page is 1-based.
	ListReported(ctx context.Context, page, size int) ([]*domain.Comment, int64, error)
	// Save overwrites the reported flag.
	Save(ctx context.Context, comment *domain.Comment) error
}
