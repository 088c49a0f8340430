package domain

import "time"

// ModerationAction names a moderation state transition.
type ModerationAction string

const (
	ActionReportComment   ModerationAction = "report_comment"
	ActionUnreportComment ModerationAction = "unreport_comment"
	ActionDeleteComment   ModerationAction = "delete_comment"
	ActionBanUser         ModerationAction = "ban_user"
	ActionUnbanUser       ModerationAction = "unban_user"
)

// ModerationEvent is the audit record written for every moderation action.
type ModerationEvent struct {
	ID         string
	Action     ModerationAction
	ActorID    string
	TargetID   string
	OccurredAt time.Time
}
