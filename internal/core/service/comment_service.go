package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/policy"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

const maxCommentLen = 2000

type commentService struct {
	notes    ports.NoteRepository
	comments ports.CommentRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewCommentService returns a CommentService. Comment access always follows
// read access on the owning note.
func NewCommentService(notes ports.NoteRepository, comments ports.CommentRepository, log zerolog.Logger) ports.CommentService {
	return &commentService{notes: notes, comments: comments, log: log, now: time.Now}
}

func (s *commentService) List(ctx context.Context, caller policy.Caller, noteID string) ([]*domain.Comment, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, policy.OnNote(note), policy.CommentRead); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByNote(ctx, note.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *commentService) Create(ctx context.Context, caller policy.Caller, noteID, content string) (*domain.Comment, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, policy.OnNote(note), policy.CommentCreate); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewValidationError("comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, domain.NewValidationError(fmt.Sprintf("comment must be at most %d characters", maxCommentLen))
	}

	created, err := s.comments.Create(ctx, &domain.Comment{
		NoteID:    note.ID,
		AuthorID:  caller.ID(),
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return created, nil
}

func (s *commentService) Delete(ctx context.Context, caller policy.Caller, noteID, commentID string) error {
	note, comment, err := loadComment(ctx, s.notes, s.comments, noteID, commentID)
	if err != nil {
		return err
	}
	if err := authorize(caller, policy.OnComment(note, comment), policy.CommentDelete); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.log.Info().Str("comment_id", comment.ID).Str("actor_id", caller.ID()).Msg("comment deleted")
	return nil
}

// loadComment fetches a note and one of its comments. A comment that belongs
// to another note is reported as not found.
func loadComment(ctx context.Context, notes ports.NoteRepository, comments ports.CommentRepository, noteID, commentID string) (*domain.Note, *domain.Comment, error) {
	note, err := notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, nil, err
	}
	comment, err := comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}
	if comment.NoteID != note.ID {
		return nil, nil, domain.ErrCommentNotFound
	}
	return note, comment, nil
}
