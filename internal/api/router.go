package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/authcrest/session-engine/internal/api/handler"
	"github.com/authcrest/session-engine/internal/api/middleware"
	"github.com/authcrest/session-engine/internal/core/service"
	"github.com/authcrest/session-engine/internal/infrastructure/audit"
	"github.com/authcrest/session-engine/internal/infrastructure/config"
	"github.com/authcrest/session-engine/internal/infrastructure/crypto"
	mongodb "github.com/authcrest/session-engine/internal/infrastructure/db/mongo"
	redisdb "github.com/authcrest/session-engine/internal/infrastructure/db/redis"
	"github.com/authcrest/session-engine/internal/infrastructure/eventbus"
	"github.com/authcrest/session-engine/internal/infrastructure/token"
)

// NewRouter wires every adapter to the use cases and returns the Echo
// instance with all routes registered. It is the composition root: the
// only place that knows concrete types on both sides of the ports.
func NewRouter(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth_http"))

	// --- Adapters ---
	userRepo := mongodb.NewUserRepository(db)
	sessionRepo := redisdb.NewSessionRepository(rdb)
	attempts := redisdb.NewAttemptTracker(rdb, cfg.Auth.AttemptWindow)
	tokens := token.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	crypt := crypto.NewService()
	auditor := audit.NewLogger(mongodb.NewAuditStore(db), log)

	bus := eventbus.NewBus(cfg.Auth.EventBusWorkers, log)
	bus.Start(ctx)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("user index creation failed")
	}

	// --- Use cases ---
	login := service.NewLoginUseCase(userRepo, sessionRepo, tokens, crypt, bus, auditor, attempts, log)
	register := service.NewRegisterUseCase(userRepo, sessionRepo, tokens, crypt, bus, auditor, log)
	logout := service.NewLogoutUseCase(userRepo, sessionRepo, bus, auditor, log)
	refresh := service.NewRefreshTokenUseCase(userRepo, sessionRepo, tokens, crypt, bus, auditor, log)
	validate := service.NewValidateSessionUseCase(sessionRepo, userRepo, log)
	currentUser := service.NewGetCurrentUserUseCase(validate, log)

	authHandler := handler.NewAuthHandler(login, register, logout, refresh, validate, currentUser)
	requireAuth := middleware.Auth(tokens)

	// --- Auth routes ---
	v1 := e.Group("/v1/auth")
	v1.POST("/register", authHandler.Register)
	v1.POST("/login", authHandler.Login)
	v1.POST("/refresh", authHandler.Refresh)
	v1.POST("/logout", authHandler.Logout, requireAuth)
	v1.GET("/session", authHandler.Session, requireAuth)
	v1.GET("/me", authHandler.Me, requireAuth)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
