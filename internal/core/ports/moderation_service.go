package ports

import (
	"context"

	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/policy"
)

// CommentPage is one page of the reported-comments listing.
type CommentPage struct {
	Items []*domain.Comment
	Total int64
	Page  int
	Size  int
}

// ModerationService applies report and ban transitions. Every transition is
// idempotent.
type ModerationService interface {
	ReportComment(ctx context.Context, caller policy.Caller, noteID, commentID string) (*domain.Comment, error)
	UnreportComment(ctx context.Context, caller policy.Caller, commentID string) (*domain.Comment, error)
	BanUser(ctx context.Context, caller policy.Caller, userID string) (*domain.User, error)
	UnbanUser(ctx context.Context, caller policy.Caller, userID string) (*domain.User, error)
	ListReported(ctx context.Context, caller policy.Caller, page, size int) (*CommentPage, error)
	DeleteReported(ctx context.Context, caller policy.Caller, commentID string) error
}

// AuditPublisher hands moderation events to the asynchronous audit writer.
// Publish must not block the request path.
type AuditPublisher interface {
	Publish(event domain.ModerationEvent)
}

// AuditService persists a single moderation event.
type AuditService interface {
	Record(ctx context.Context, event domain.ModerationEvent) error
}
