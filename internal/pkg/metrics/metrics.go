// Package metrics defines every custom Prometheus metric exposed by the
// planner auth service. It is the single source of truth for metric names,
// labels and help strings.
//
// Metrics register with the default registry through promauto at package
// init, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "planner"

// ── Session metrics ──────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh requests.
// Label:
//   - result: "success" or "failure"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access token refreshes, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts access tokens presented on requests.
// Label:
//   - result: "valid", "invalid" or "unknown_subject"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of presented access tokens, by verification result.",
	},
	[]string{"result"},
)

// ── Authorization metrics ────────────────────────────────────────────────────

// AuthorizationDecisionsTotal counts permission decisions.
// Labels:
//   - action: the policy action (e.g. "read", "comment_create")
//   - decision: "allow", "deny_unauthenticated" or "deny_forbidden"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of permission decisions, by action and outcome.",
	},
	[]string{"action", "decision"},
)

// ── Moderation metrics ───────────────────────────────────────────────────────

// ModerationActionsTotal counts applied moderation transitions.
// Label:
//   - action: e.g. "ban_user", "report_comment"
var ModerationActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_actions_total",
		Help:      "Total number of moderation actions applied.",
	},
	[]string{"action"},
)

// AuditQueueDepth tracks events waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of moderation events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events by outcome.
// Label:
//   - result: "written", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of moderation audit events, by outcome.",
	},
	[]string{"result"},
)

// AuditWriteDuration measures a single audit insert.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a moderation audit event write.",
		Buckets:   prometheus.DefBuckets,
	},
)
