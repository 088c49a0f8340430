package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/wrapitup/planner-auth/internal/core/credential"
	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/ports"
	"github.com/wrapitup/planner-auth/internal/core/policy"
	"github.com/wrapitup/planner-auth/internal/pkg/metrics"
)

const (
	minPasswordLen = 8
	// bcrypt rejects longer input.
	maxPasswordBytes = 72
)

// LoginThrottle abstracts the failed-login counter (Redis).
type LoginThrottle interface {
	Exceeded(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuthService implements registration, login, refresh and request identification.
type AuthService struct {
	users    ports.UserRepository
	codec    *credential.Codec
	throttle LoginThrottle
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the session boundary. throttle may be nil to disable
// login throttling.
func NewAuthService(users ports.UserRepository, codec *credential.Codec, throttle LoginThrottle, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		codec:    codec,
		throttle: throttle,
		log:      log,
		now:      time.Now,
	}
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case username == "":
		return nil, domain.NewValidationError("username is required")
	case email == "":
		return nil, domain.NewValidationError("email is required")
	case password == "":
		return nil, domain.NewValidationError("password is required")
	case len(password) < minPasswordLen:
		return nil, domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	case len(password) > maxPasswordBytes:
		return nil, domain.NewValidationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []domain.Role{domain.RoleUser},
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login checks the password and issues an access and refresh credential.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.Session, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	if s.throttled(ctx, username) {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		return nil, nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Burn a comparison so response time does not reveal unknown usernames.
		_ = bcrypt.CompareHashAndPassword(placeholderHash(), []byte(password))
		s.recordFailure(ctx, username)
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return nil, nil, domain.ErrInvalidCredentials
	}

	access, err := s.codec.Issue(user, credential.KindAccess)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	refresh, err := s.codec.Issue(user, credential.KindRefresh)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login throttle")
		}
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")
	return &ports.Session{Access: access, Refresh: refresh}, user, nil
}

func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (credential.Credential, error) {
	sub, err := s.codec.VerifyKind(rawRefresh, credential.KindRefresh)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return credential.Credential{}, domain.ErrInvalidCredential
	}

	user, err := s.users.FindByUsername(ctx, sub.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return credential.Credential{}, domain.ErrInvalidCredential
	}
	if err != nil {
		return credential.Credential{}, fmt.Errorf("refresh: %w", err)
	}

	access, err := s.codec.Issue(user, credential.KindAccess)
	if err != nil {
		return credential.Credential{}, fmt.Errorf("refresh: %w", err)
	}
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return access, nil
}

// Identify returns the stored user behind an access token. The roles come
// from the token, the id and status from the store, so a ban takes effect on
// the next request while the token itself stays valid.
func (s *AuthService) Identify(ctx context.Context, rawAccess string) (policy.Caller, error) {
	if rawAccess == "" {
		return policy.Anonymous(), nil
	}

	sub, err := s.codec.VerifyKind(rawAccess, credential.KindAccess)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
		return policy.Anonymous(), nil
	}

	user, err := s.users.FindByUsername(ctx, sub.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		metrics.TokenVerificationsTotal.WithLabelValues("unknown_subject").Inc()
		return policy.Anonymous(), nil
	}
	if err != nil {
		return policy.Anonymous(), fmt.Errorf("identify: %w", err)
	}

	metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
	user.Roles = sub.Roles
	return policy.Authenticated(user), nil
}

func (s *AuthService) throttled(ctx context.Context, username string) bool {
	if s.throttle == nil {
		return false
	}
	exceeded, err := s.throttle.Exceeded(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return exceeded
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

var (
	placeholderOnce sync.Once
	placeholder     []byte
)

func placeholderHash() []byte {
	placeholderOnce.Do(func() {
		placeholder, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcrypt.DefaultCost)
	})
	return placeholder
}
