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

type noteService struct {
	notes ports.NoteRepository
	users ports.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

// NewNoteService returns a NoteService that gates every operation on the
// permission resolver.
func NewNoteService(notes ports.NoteRepository, users ports.UserRepository, log zerolog.Logger) ports.NoteService {
	return &noteService{notes: notes, users: users, log: log, now: time.Now}
}

func (s *noteService) Get(ctx context.Context, caller policy.Caller, id string) (*domain.Note, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, policy.OnNote(note), policy.Read); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Create(ctx context.Context, caller policy.Caller, in ports.NoteInput) (*domain.Note, error) {
	if err := authorize(caller, policy.Resource{}, policy.Create); err != nil {
		return nil, err
	}
	if err := validateNoteInput(in); err != nil {
		return nil, err
	}

	note := &domain.Note{
		OwnerID:       caller.ID(),
		Title:         strings.TrimSpace(in.Title),
		Overview:      in.Overview,
		Summary:       in.Summary,
		JSONQuestions: in.JSONQuestions,
		Category:      in.Category,
		Visibility:    in.Visibility,
		SharedWith:    []string{},
		LastModified:  s.now().UTC(),
	}
	if note.Category == "" {
		note.Category = domain.CategoryOthers
	}
	if note.Visibility == "" {
		note.Visibility = domain.VisibilityPrivate
	}

	created, err := s.notes.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	s.log.Info().Str("note_id", created.ID).Str("owner_id", created.OwnerID).Msg("note created")
	return created, nil
}

func (s *noteService) Update(ctx context.Context, caller policy.Caller, id string, in ports.NoteInput) (*domain.Note, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, policy.OnNote(note), policy.Edit); err != nil {
		return nil, err
	}
	if err := validateNoteInput(in); err != nil {
		return nil, err
	}

	note.Title = strings.TrimSpace(in.Title)
	note.Overview = in.Overview
	note.Summary = in.Summary
	note.JSONQuestions = in.JSONQuestions
	if in.Category != "" {
		note.Category = in.Category
	}
	if in.Visibility != "" {
		note.Visibility = in.Visibility
	}
	note.LastModified = s.now().UTC()

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, caller policy.Caller, id string) error {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(caller, policy.OnNote(note), policy.Delete); err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	s.log.Info().Str("note_id", id).Str("actor_id", caller.ID()).Msg("note deleted")
	return nil
}

// ShareByUsername grants read access to the named user. Sharing with an
// existing recipient succeeds without change; there is no way to unshare.
func (s *noteService) ShareByUsername(ctx context.Context, caller policy.Caller, id, username string) (*domain.Note, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, policy.OnNote(note), policy.Share); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.NewValidationError("username is required")
	}
	target, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == caller.ID() {
		return nil, domain.NewValidationError("cannot share with yourself")
	}

	if !note.IsSharedWith(target.ID) {
		if err := s.notes.AddSharedUser(ctx, note.ID, target.ID); err != nil {
			return nil, fmt.Errorf("share note: %w", err)
		}
		note.SharedWith = append(note.SharedWith, target.ID)
		s.log.Info().Str("note_id", note.ID).Str("shared_with", target.ID).Msg("note shared")
	}
	return note, nil
}

func validateNoteInput(in ports.NoteInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.NewValidationError("title is required")
	}
	if in.Category != "" && !in.Category.Valid() {
		return domain.NewValidationError(fmt.Sprintf("unknown category %q", in.Category))
	}
	if in.Visibility != "" && !in.Visibility.Valid() {
		return domain.NewValidationError(fmt.Sprintf("unknown visibility %q", in.Visibility))
	}
	return nil
}
