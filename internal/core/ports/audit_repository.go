package ports

import (
	"context"

	"github.com/wrapitup/planner-auth/internal/core/domain"
)

// AuditRepository stores moderation events in the audit collection.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.ModerationEvent) error
}
