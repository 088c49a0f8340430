package service

import (
	"github.com/wrapitup/planner-auth/internal/core/policy"
	"github.com/wrapitup/planner-auth/internal/pkg/metrics"
)

// authorize resolves the decision, records it and returns the matching
// domain error for a denial.
func authorize(caller policy.Caller, res policy.Resource, action policy.Action) error {
	d := policy.Resolve(caller, res, action)
	metrics.AuthorizationDecisionsTotal.WithLabelValues(action.String(), d.String()).Inc()
	return d.Err()
}
