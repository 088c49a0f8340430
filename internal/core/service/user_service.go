package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/ports"
	"github.com/wrapitup/planner-auth/internal/core/policy"
)

type userService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) ports.UserService {
	return &userService{users: users, log: log}
}

// Get returns the profile with the given id. The permission check runs
// before the lookup, so only the owner or an admin can learn that an id
// does not exist.
func (s *userService) Get(ctx context.Context, caller policy.Caller, id string) (*domain.User, error) {
	if err := authorize(caller, policy.OnUser(&domain.User{ID: id}), policy.ViewProfile); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}
