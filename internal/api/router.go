package api

import (
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	"github.com/melrifa1/no1-service-tracker/internal/api/handler"
	"github.com/melrifa1/no1-service-tracker/internal/api/middleware"
	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
	"github.com/melrifa1/no1-service-tracker/internal/core/service"
	"github.com/melrifa1/no1-service-tracker/internal/infrastructure/config"
	"github.com/melrifa1/no1-service-tracker/internal/infrastructure/db/postgres"
	redisdb "github.com/melrifa1/no1-service-tracker/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("service_tracker"))
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(db)
	logRepo := postgres.NewServiceLogRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb)

	authService := service.NewAuthService(userRepo, throttle, cfg.JWTSecret, cfg.JWTTTL, log)
	logService := service.NewLogService(logRepo, userRepo, log)
	reportService := service.NewReportService(logRepo, log)
	userService := service.NewUserService(userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	logHandler := handler.NewLogHandler(logService)
	reportHandler := handler.NewReportHandler(reportService)
	userHandler := handler.NewUserHandler(userService)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret))
	v1.GET("/me", userHandler.Me)
	v1.POST("/logs", logHandler.Create)
	v1.GET("/logs", logHandler.List)
	v1.GET("/reports", reportHandler.Summary)

	// Admin-only routes. Services re-check the role; the middleware is the
	// first gate.
	admin := v1.Group("", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/reports/export", reportHandler.Export)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users", userHandler.List)
	admin.PATCH("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	return e
}
