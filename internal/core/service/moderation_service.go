package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/policy"
	"github.com/wrapitup/planner-auth/internal/core/ports"
	"github.com/wrapitup/planner-auth/internal/pkg/metrics"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type moderationService struct {
	users    ports.UserRepository
	notes    ports.NoteRepository
	comments ports.CommentRepository
	audit    ports.AuditPublisher
	log      zerolog.Logger
	now      func() time.Time
}

// NewModerationService returns a ModerationService. Applied transitions are
// published to audit; repeated no-op transitions are not.
func NewModerationService(
	users ports.UserRepository,
	notes ports.NoteRepository,
	comments ports.CommentRepository,
	audit ports.AuditPublisher,
	log zerolog.Logger,
) ports.ModerationService {
	return &moderationService{
		users:    users,
		notes:    notes,
		comments: comments,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// ReportComment flags a comment for review. Any authenticated caller who can
// read the note may report; reporting twice is a no-op success.
func (s *moderationService) ReportComment(ctx context.Context, caller policy.Caller, noteID, commentID string) (*domain.Comment, error) {
	if caller.IsAnonymous() {
		return nil, domain.ErrAuthenticationRequired
	}
	note, comment, err := loadComment(ctx, s.notes, s.comments, noteID, commentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, policy.OnComment(note, comment), policy.Report); err != nil {
		return nil, err
	}
	if comment.Reported {
		return comment, nil
	}

	comment.Reported = true
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("report comment: %w", err)
	}
	s.record(caller, domain.ActionReportComment, comment.ID)
	return comment, nil
}

func (s *moderationService) UnreportComment(ctx context.Context, caller policy.Caller, commentID string) (*domain.Comment, error) {
	if err := authorize(caller, policy.Resource{}, policy.Moderate); err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !comment.Reported {
		return comment, nil
	}

	comment.Reported = false
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("unreport comment: %w", err)
	}
	s.record(caller, domain.ActionUnreportComment, comment.ID)
	return comment, nil
}

// BanUser blocks future authorship by the user. Existing credentials and
// content are left alone. Admins may ban any user, including themselves.
func (s *moderationService) BanUser(ctx context.Context, caller policy.Caller, userID string) (*domain.User, error) {
	return s.setStatus(ctx, caller, userID, domain.StatusBanned, domain.ActionBanUser)
}

func (s *moderationService) UnbanUser(ctx context.Context, caller policy.Caller, userID string) (*domain.User, error) {
	return s.setStatus(ctx, caller, userID, domain.StatusActive, domain.ActionUnbanUser)
}

func (s *moderationService) setStatus(ctx context.Context, caller policy.Caller, userID string, status domain.UserStatus, action domain.ModerationAction) (*domain.User, error) {
	if err := authorize(caller, policy.Resource{}, policy.Moderate); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return user, nil
	}

	user.Status = status
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	s.record(caller, action, user.ID)
	return user, nil
}

func (s *moderationService) ListReported(ctx context.Context, caller policy.Caller, page, size int) (*ports.CommentPage, error) {
	if err := authorize(caller, policy.Resource{}, policy.Moderate); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	items, total, err := s.comments.ListReported(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("list reported comments: %w", err)
	}
	if items == nil {
		items = []*domain.Comment{}
	}
	return &ports.CommentPage{Items: items, Total: total, Page: page, Size: size}, nil
}

func (s *moderationService) DeleteReported(ctx context.Context, caller policy.Caller, commentID string) error {
	if err := authorize(caller, policy.Resource{}, policy.Moderate); err != nil {
		return err
	}
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete reported comment: %w", err)
	}
	s.record(caller, domain.ActionDeleteComment, comment.ID)
	return nil
}

func (s *moderationService) record(caller policy.Caller, action domain.ModerationAction, targetID string) {
	metrics.ModerationActionsTotal.WithLabelValues(string(action)).Inc()
	s.log.Info().
		Str("action", string(action)).
		Str("actor_id", caller.ID()).
		Str("target_id", targetID).
		Msg("moderation action applied")

	if s.audit == nil {
		return
	}
	s.audit.Publish(domain.ModerationEvent{
		ID:         uuid.NewString(),
		Action:     action,
		ActorID:    caller.ID(),
		TargetID:   targetID,
		OccurredAt: s.now().UTC(),
	})
}
