package ports

import (
	"context"

	"github.com/wrapitup/planner-auth/internal/core/credential"
	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/policy"
)

// Session is the credential pair handed out at login.
type Session struct {
	Access  credential.Credential
	Refresh credential.Credential
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, *domain.User, error)
	// Refresh mints a new access credential. The refresh token is not rotated.
	Refresh(ctx context.Context, rawRefresh string) (credential.Credential, error)
	// Identify resolves an access token to a caller. Missing or invalid
	// tokens yield an anonymous caller and a nil error.
	Identify(ctx context.Context, rawAccess string) (policy.Caller, error)
}
