package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/ports"
	"github.com/wrapitup/planner-auth/internal/pkg/metrics"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns the AuditService the audit dispatcher workers call.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Record(ctx context.Context, event domain.ModerationEvent) error {
	start := time.Now()
	err := s.repo.Insert(ctx, &event)
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("record %s audit event: %w", event.Action, err)
	}

	metrics.AuditEventsTotal.WithLabelValues("written").Inc()
	s.log.Debug().
		Str("event_id", event.ID).
		Str("action", string(event.Action)).
		Str("target_id", event.TargetID).
		Msg("audit event written")
	return nil
}
