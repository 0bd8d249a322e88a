package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/readstack/library-system/internal/api/handler"
	"github.com/readstack/library-system/internal/api/middleware"
	"github.com/readstack/library-system/internal/core/ports"
	"github.com/readstack/library-system/internal/core/service"
	mongostore "github.com/readstack/library-system/internal/infrastructure/db/mongo"
	redisstore "github.com/readstack/library-system/internal/infrastructure/db/redis"
	"github.com/readstack/library-system/internal/pkg/config"
	"github.com/readstack/library-system/internal/pkg/password"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Every dependency is injected; nothing is constructed at package load.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, audit ports.AuditSink) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("library"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	roleRepo := mongostore.NewRoleRepository(db)
	bookRepo := mongostore.NewBookRepository(db)

	var throttle ports.SignInThrottle
	if rdb != nil {
		throttle = redisstore.NewSignInThrottle(rdb, cfg.Auth.ThrottleMaxFailures)
	}

	codec := service.NewTokenCodec(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLSeconds)*time.Second)
	authService := service.NewAuthService(userRepo, password.NewHasher(cfg.Auth.BcryptCost), codec, service.AuthOptions{
		AutoProvision: cfg.Auth.AutoProvision,
		Throttle:      throttle,
		Audit:         audit,
	})
	bookService := service.NewBookService(bookRepo)

	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	modelHandler := handler.NewModelHandler(map[string]ports.ModelReader{
		"books": bookRepo,
		"users": userRepo,
		"roles": roleRepo,
	})

	requireAuth := middleware.Auth(authService, false)
	optionalAuth := middleware.Auth(authService, true)

	// --- Auth routes ---
	e.POST("/signup", authHandler.Signup)
	e.POST("/signin", authHandler.Signin, requireAuth)

	// --- Book routes ---
	e.GET("/books", bookHandler.List, optionalAuth)
	e.POST("/books", bookHandler.Create, requireAuth,
		middleware.RequireCapability(roleRepo, "create", "You cannot create a book!"))
	e.PUT("/books/:id", bookHandler.Replace, requireAuth,
		middleware.RequireCapability(roleRepo, "update", "You cannot update books"))
	e.PATCH("/books/:id", bookHandler.Patch, requireAuth,
		middleware.RequireCapability(roleRepo, "update", "You cannot update books"))
	e.DELETE("/books/:id", bookHandler.Delete, requireAuth,
		middleware.RequireCapability(roleRepo, "delete", "You cannot delete books"))

	// --- Generic model routes ---
	e.GET("/model/:name", modelHandler.Summary, optionalAuth)
	e.GET("/model/:name/:id", modelHandler.Record, requireAuth,
		middleware.RequireRole("admin", "Forbidden to access this route"))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
