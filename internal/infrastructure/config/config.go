package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Audit AuditConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	JWTIssuer  string        `env:"JWT_ISSUER, default=wrapitup-planner"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=30m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`

	CookieSecure bool   `env:"COOKIE_SECURE, default=true"`
	CookieDomain string `env:"COOKIE_DOMAIN"`

	// LoginMaxFailures of 0 disables throttling.
	LoginMaxFailures   int           `env:"LOGIN_MAX_FAILURES,   default=10"`
	LoginFailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=planner"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsProduction reports whether ENV is set to production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l. Tests pass an envconfig.MapLookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0:
		return fmt.Errorf("load config: token ttls must be positive")
	case c.Auth.LoginMaxFailures < 0:
		return fmt.Errorf("load config: LOGIN_MAX_FAILURES must not be negative")
	case c.Auth.LoginMaxFailures > 0 && c.Auth.LoginFailureWindow <= 0:
		return fmt.Errorf("load config: LOGIN_FAILURE_WINDOW must be positive")
	case c.Audit.Workers <= 0:
		return fmt.Errorf("load config: AUDIT_WORKERS must be positive")
	}
	return nil
}
