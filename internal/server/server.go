// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "nutritrack/docs" // swagger docs
	"nutritrack/internal/blob"
	"nutritrack/internal/cache"
	"nutritrack/internal/config"
	"nutritrack/internal/database"
	"nutritrack/internal/featureflags"
	"nutritrack/internal/middleware"
	"nutritrack/internal/models"
	"nutritrack/internal/notifications"
	"nutritrack/internal/nutriscan"
	"nutritrack/internal/repository"
	"nutritrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// APIVersion is reported by the banner and readiness endpoints.
const APIVersion = "1.0.0"

// Server holds all dependencies and provides handlers
type Server struct {
	config      *config.Config
	db          *gorm.DB
	redis       *redis.Client
	app         *fiber.App
	shutdownCtx context.Context
	shutdownFn  context.CancelFunc

	store    repository.Store
	cache    *cache.Cache
	tokens   *middleware.TokenManager
	flags    *featureflags.Manager
	images   *blob.LocalStore
	notifier *notifications.Notifier
	hub      *notifications.Hub

	summaries *service.SummaryService
	streaks   *service.StreakService
	logs      *service.LogService
	auth      *service.AuthService
	scans     *service.ScanService
	catalog   *service.CatalogService
}

// Options override pieces of the production wiring, mostly for tests.
type Options struct {
	Clock   service.Clock
	Catalog *nutriscan.Catalog
	Scan    service.ScanOptions
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts Options) (*Server, error) {
	catalog := opts.Catalog
	if catalog == nil {
		c, err := nutriscan.DefaultCatalog()
		if err != nil {
			return nil, fmt.Errorf("load food catalog: %w", err)
		}
		catalog = c
	}

	images, err := blob.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,
		store:  repository.NewStore(db),
		cache:  cache.New(redisClient),
		tokens: middleware.NewTokenManager(cfg.JWTSecret),
		flags:  featureflags.NewManager(cfg.FeatureFlags),
		images: images,
		hub:    notifications.NewHub(),
	}

	var publisher service.SummaryPublisher
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
		publisher = s.notifier
	}

	scanOpts := opts.Scan
	if scanOpts.MaxUploadBytes == 0 {
		scanOpts.MaxUploadBytes = cfg.UploadMaxBytes()
	}
	if scanOpts.Clock == nil {
		scanOpts.Clock = opts.Clock
	}

	s.summaries = service.NewSummaryService(s.store, s.cache, publisher, opts.Clock)
	s.streaks = service.NewStreakService(s.store, opts.Clock)
	s.logs = service.NewLogService(s.store, s.summaries, opts.Clock)
	s.auth = service.NewAuthService(s.store, s.streaks, s.tokens)
	s.scans = service.NewScanService(s.store, images, catalog, scanOpts)
	s.catalog = service.NewCatalogService(s.store, s.cache, catalog)
	return s, nil
}

// Catalog exposes the catalog service so bootstrap code can invalidate it after seeding.
func (s *Server) Catalog() *service.CatalogService {
	return s.catalog
}

// App builds the Fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:   "NutriTrack API",
		BodyLimit: int(s.config.UploadMaxBytes()) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return models.RespondWithError(c, fe.Code, &models.AppError{Code: codeForStatus(fe.Code), Message: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	// Registers GET /metrics and instruments every request after it.
	middleware.MetricsMiddleware(app, "nutritrack-api")

	app.Use(helmet.New(helmet.Config{
		// Uploaded images are fetched cross-origin by the frontend.
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Banner)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Static("/uploads", s.images.Dir())

	// Unprefixed routes kept for existing clients.
	app.Get("/user/:user_id", s.GetUserProfile)
	app.Get("/food-suggestions/:goal", s.GetFoodSuggestions)

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Get("/me", middleware.AuthRequired(s.tokens, false), s.Me)

	api.Get("/features", middleware.AuthRequired(s.tokens, false), s.GetFeatureFlags)

	api.Post("/nutriscan/analyze", s.AnalyzeFood)

	foods := api.Group("/foods")
	foods.Get("/", s.GetFoods)
	foods.Get("/search", s.SearchFoods)
	foods.Get("/:id", s.GetFood)

	exercises := api.Group("/exercises")
	exercises.Get("/", s.GetExercises)
	exercises.Get("/type/:type", s.GetExercisesByType)
	exercises.Get("/met/:type", s.GetMETValue)

	api.Post("/food/log", s.CreateFoodLog)
	api.Get("/food/logs/:user_id", s.GetFoodLogs)
	api.Delete("/food/logs/:id", s.DeleteFoodLog)

	api.Post("/exercise/log", s.CreateExerciseLog)
	api.Get("/exercise/logs/:user_id", s.GetExerciseLogs)
	api.Delete("/exercise/logs/:id", s.DeleteExerciseLog)

	api.Post("/water/log", s.CreateWaterLog)
	api.Get("/water/logs/:user_id", s.GetWaterLogs)
	api.Delete("/water/logs/:id", s.DeleteWaterLog)

	api.Get("/summary/:user_id", s.GetDailySummary)

	ws := api.Group("/ws", middleware.AuthRequired(s.tokens, true))
	ws.Get("/summary", s.SummaryWebSocketHandler())
}

// Banner handles GET /
func (s *Server) Banner(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "NutriTrack API is running",
		"version": APIVersion,
		"endpoints": fiber.Map{
			"auth":        "/api/auth",
			"nutriscan":   "/api/nutriscan/analyze",
			"foods":       "/api/foods",
			"exercises":   "/api/exercises",
			"foodLog":     "/api/food/log",
			"exerciseLog": "/api/exercise/log",
			"waterLog":    "/api/water/log",
			"summary":     "/api/summary/:user_id",
			"user":        "/user/:user_id",
			"suggestions": "/food-suggestions/:goal",
			"realtime":    "/api/ws/summary",
			"docs":        "/api/swagger/index.html",
		},
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.cache.Enabled() {
		redisStatus = "healthy"
		if err := s.cache.Ping(ctx); err != nil {
			redisStatus = "unhealthy"
		}
	}

	// Redis is optional; only a failing connection marks the service unready.
	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overall,
		"version": APIVersion,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// Start serves on the configured port until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.App()

	if s.notifier != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start hub wiring",
					slog.String("hub", s.hub.Name()),
					slog.String("error", err.Error()),
				)
			}
		}()
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down hub", slog.String("error", err.Error()))
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing sql DB", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
