package ports

import (
	"context"

	"github.com/wrapitup/planner-auth/internal/core/domain"
)

// NoteRepository persists notes. FindByID must return owner, visibility and
// the share list; it returns domain.ErrNoteNotFound when absent.
type NoteRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id string) error
	// AddSharedUser grants userID read access. Adding an existing entry is a no-op.
	AddSharedUser(ctx context.Context, noteID, userID string) error
}
