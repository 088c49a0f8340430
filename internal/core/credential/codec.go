// Package credential issues and verifies the signed, time-bounded bearer
// tokens that carry a user's identity and role snapshot.
//
// Tokens are HS256 JWTs. Verification never distinguishes between malformed,
// tampered and expired input: every failure is domain.ErrInvalidCredential.
// The signing key is never rotated or revoked per token, so an unexpired
// token stays valid until its exp claim passes.
package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wrapitup/planner-auth/internal/core/domain"
)

// Kind separates short-lived access tokens from long-lived refresh tokens.
type Kind string

const (
	KindAccess  Kind = "ACCESS"
	KindRefresh Kind = "REFRESH"
)

const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultIssuer     = "wrapitup-planner"
)

// ErrMissingSecret is returned by NewCodec when no signing secret is configured.
var ErrMissingSecret = errors.New("credential: signing secret is empty")

// Config is loaded once at startup and injected into the codec.
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims is the JWT payload. Subject holds the username.
type Claims struct {
	Roles []domain.Role `json:"roles"`
	Kind  Kind          `json:"token_type"`
	jwt.RegisteredClaims
}

// Credential is an issued token together with its lifetime bounds.
type Credential struct {
	Token     string
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TTL is the remaining lifetime at issuance, used as the cookie max-age.
func (c Credential) TTL() time.Duration {
	return c.ExpiresAt.Sub(c.IssuedAt)
}

// Subject is what a verified token asserts.
type Subject struct {
	Username  string
	Roles     []domain.Role
	Kind      Kind
	ExpiresAt time.Time
}

// Codec is safe for concurrent use; it holds no mutable state.
type Codec struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec validates cfg and applies defaults for zero TTLs and issuer.
func NewCodec(cfg Config, opts ...Option) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	c := &Codec{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	if c.issuer == "" {
		c.issuer = DefaultIssuer
	}
	if c.accessTTL <= 0 {
		c.accessTTL = DefaultAccessTTL
	}
	if c.refreshTTL <= 0 {
		c.refreshTTL = DefaultRefreshTTL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured lifetime for kind.
func (c *Codec) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token of the given kind for user. The user's roles at this
// moment are embedded and are not re-checked on verification.
func (c *Codec) Issue(user *domain.User, kind Kind) (Credential, error) {
	if user == nil || user.Username == "" {
		return Credential{}, fmt.Errorf("issue %s credential: missing subject", kind)
	}
	if kind != KindAccess && kind != KindRefresh {
		return Credential{}, fmt.Errorf("issue credential: unknown kind %q", kind)
	}

	// jwt NumericDate has second precision; truncate so the returned bounds
	// match what a later Verify reports.
	now := c.now().UTC().Truncate(time.Second)
	exp := now.Add(c.TTL(kind))

	roles := make([]domain.Role, len(user.Roles))
	copy(roles, user.Roles)

	claims := Claims{
		Roles: roles,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return Credential{}, fmt.Errorf("sign %s credential: %w", kind, err)
	}

	return Credential{Token: signed, Kind: kind, IssuedAt: now, ExpiresAt: exp}, nil
}

// Verify checks signature, issuer and expiry of raw.
func (c *Codec) Verify(raw string) (Subject, error) {
	if raw == "" {
		return Subject{}, domain.ErrInvalidCredential
	}

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tkn.Valid {
		return Subject{}, domain.ErrInvalidCredential
	}
	if claims.Subject == "" || (claims.Kind != KindAccess && claims.Kind != KindRefresh) {
		return Subject{}, domain.ErrInvalidCredential
	}

	return Subject{
		Username:  claims.Subject,
		Roles:     claims.Roles,
		Kind:      claims.Kind,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// VerifyKind is Verify plus a check that the token is of the expected kind,
// so a refresh token cannot be replayed as an access token or vice versa.
func (c *Codec) VerifyKind(raw string, kind Kind) (Subject, error) {
	sub, err := c.Verify(raw)
	if err != nil {
		return Subject{}, err
	}
	if sub.Kind != kind {
		return Subject{}, domain.ErrInvalidCredential
	}
	return sub, nil
}
