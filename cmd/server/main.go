package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wrapitup/planner-auth/internal/api"
	"github.com/wrapitup/planner-auth/internal/api/handler"
	"github.com/wrapitup/planner-auth/internal/core/credential"
	"github.com/wrapitup/planner-auth/internal/core/service"
	"github.com/wrapitup/planner-auth/internal/infrastructure/config"
	mongodb "github.com/wrapitup/planner-auth/internal/infrastructure/db/mongo"
	redisdb "github.com/wrapitup/planner-auth/internal/infrastructure/db/redis"
	"github.com/wrapitup/planner-auth/internal/infrastructure/queue"
	"github.com/wrapitup/planner-auth/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// @title           Planner Auth API
// @version         1.0
// @description     Authentication, permission resolution and moderation for shared study notes.
// @BasePath        /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "planner-auth",
	})

	codec, err := credential.NewCodec(credential.Config{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.JWTIssuer,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})
	if err != nil {
		return err
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "planner-auth",
	})
	if err != nil {
		return err
	}
	defer disconnectMongo(mongoClient, log)

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	notes := mongodb.NewNoteRepository(db)
	comments := mongodb.NewCommentRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, notes, comments, auditRepo); err != nil {
		return err
	}

	// Audit workers outlive the signal context so queued events drain on shutdown.
	auditCtx, cancelAudit := context.WithCancel(context.Background())
	defer cancelAudit()
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(auditRepo, log), log)
	dispatcher.Start(auditCtx)

	var throttle service.LoginThrottle
	if cfg.Auth.LoginMaxFailures > 0 {
		throttle = redisdb.NewLoginThrottle(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow)
	}

	e := api.NewRouter(api.Deps{
		Auth:       service.NewAuthService(users, codec, throttle, log),
		Notes:      service.NewNoteService(notes, users, log),
		Comments:   service.NewCommentService(notes, comments, log),
		Moderation: service.NewModerationService(users, notes, comments, dispatcher, log),
		Users:      service.NewUserService(users, log),
		Cookies: handler.CookieConfig{
			Secure: cfg.Auth.CookieSecure,
			Domain: cfg.Auth.CookieDomain,
		},
		Checks: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: log,
	})

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case err := <-srvErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info().Msg("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	dispatcher.Close()
	drained := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		log.Warn().Msg("audit queue not drained before shutdown deadline")
		cancelAudit()
	}
	return nil
}

func disconnectMongo(client *mongo.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
}
