package ports

import (
	"context"

	"github.com/wrapitup/planner-auth/internal/core/domain"
)

// UserRepository persists users. Lookups return domain.ErrUserNotFound when
// nothing matches.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create returns domain.ErrUserExists on a duplicate username.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Save overwrites the mutable fields (roles, status, updated_at).
	Save(ctx context.Context, user *domain.User) error
}
