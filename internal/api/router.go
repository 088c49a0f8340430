package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/wrapitup/planner-auth/docs"
	"github.com/wrapitup/planner-auth/internal/api/handler"
	"github.com/wrapitup/planner-auth/internal/api/middleware"
	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

// Deps carries everything the router needs. Services are built by the caller
// so tests can swap in in-memory stores.
type Deps struct {
	Auth       ports.AuthService
	Notes      ports.NoteService
	Comments   ports.CommentService
	Moderation ports.ModerationService
	Users      ports.UserService
	Cookies    handler.CookieConfig
	Checks     map[string]handler.DependencyCheck
	Log        zerolog.Logger
	// Registry receives the HTTP metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(promMiddleware(d.Registry))
	e.Use(middleware.Identify(d.Auth))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies)
	noteHandler := handler.NewNoteHandler(d.Notes)
	commentHandler := handler.NewCommentHandler(d.Comments, d.Moderation)
	moderationHandler := handler.NewModerationHandler(d.Moderation)
	userHandler := handler.NewUserHandler(d.Users)
	healthHandler := handler.NewHealthHandler(d.Checks)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", promHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")
	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	// --- Session ---
	auth := v1.Group("/auth")
	auth.POST("/user", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)

	// --- Notes and comments: anonymous callers reach PUBLIC content ---
	notes := v1.Group("/notes")
	notes.POST("", noteHandler.Create, requireAuth)
	notes.GET("/:id", noteHandler.Get)
	notes.PUT("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)
	notes.POST("/:id/share-username", noteHandler.Share)
	notes.GET("/:id/comments", commentHandler.List)
	notes.POST("/:id/comments", commentHandler.Create)
	notes.DELETE("/:id/comments/:commentId", commentHandler.Delete)
	notes.POST("/:id/comments/:commentId/report", commentHandler.Report)

	// --- Users ---
	users := v1.Group("/users")
	users.GET("", userHandler.Current, requireAuth)
	users.GET("/:id", userHandler.Get)
	users.POST("/:id/ban", moderationHandler.Ban, requireAdmin)
	users.POST("/:id/unban", moderationHandler.Unban, requireAdmin)

	// --- Admin review queue ---
	admin := v1.Group("/admin", requireAdmin)
	admin.GET("/reported-comments", moderationHandler.ListReported)
	admin.POST("/reported-comments/:commentId/unreport", moderationHandler.Unreport)
	admin.DELETE("/reported-comments/:commentId", moderationHandler.DeleteReported)

	return e
}

func promMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	if reg == nil {
		return echoprometheus.NewMiddleware("planner")
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "planner",
		Registerer: reg,
	})
}

func promHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger feeds one structured line per request into zerolog. Cookies
// and headers are never logged.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
