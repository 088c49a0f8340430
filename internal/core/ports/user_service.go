package ports

import (
	"context"

	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/policy"
)

// UserService exposes user profiles to the transport layer.
type UserService interface {
	Get(ctx context.Context, caller policy.Caller, id string) (*domain.User, error)
}
