// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"ripple/internal/cache"
	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/events"
	"ripple/internal/featureflags"
	"ripple/internal/middleware"
	"ripple/internal/notifications"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	flags          *featureflags.Manager

	userRepo    repository.UserRepository
	contentRepo repository.ContentRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository

	bus       events.Bus
	busCancel func()
	hub       *notifications.Hub
	hubCancel func()

	contentService     *service.ContentService
	interactionService *service.InteractionService
	viewService        *service.ViewService
	commentService     *service.CommentService
	followService      *service.FollowService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	server, err := NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}

	server.EnableMetrics()
	return server, nil
}

// EnableMetrics attaches the Prometheus HTTP middleware. It registers
// collectors in the default registry, which only tolerates one registration
// per process, so tests build servers without calling it.
func (s *Server) EnableMetrics() {
	s.promMiddleware = fiberprometheus.New("ripple-api")
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	server := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		flags:       featureflags.NewManager(cfg.FeatureFlags),
		userRepo:    userRepo,
		contentRepo: contentRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
	}

	// Redis carries events across processes; without it the bus is
	// process-local, which is what tests and single-node dev want.
	if redisClient != nil {
		server.bus = events.NewRedisBus(redisClient)
	} else {
		server.bus = events.NewMemoryBus()
	}

	server.hub = notifications.NewHub()
	server.hubCancel = server.hub.AttachBus(server.bus)

	server.contentService = service.NewContentService(contentRepo)
	server.interactionService = service.NewInteractionService(contentRepo)
	server.viewService = service.NewViewService(contentRepo)
	server.commentService = service.NewCommentService(commentRepo, contentRepo, userRepo)
	server.followService = service.NewFollowService(followRepo, userRepo, server.bus)

	return server, nil
}

// Start wires background consumers. Safe to skip in tests.
func (s *Server) Start(ctx context.Context) error {
	if rb, ok := s.bus.(*events.RedisBus); ok {
		return rb.Start(ctx)
	}
	return nil
}

// Bus exposes the event bus for probes and tests.
func (s *Server) Bus() events.Bus { return s.bus }

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing spans per request
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware runs before middlewares that can short-circuit (e.g.
	// limiter) so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// With strict_rate_limits on, mutation limiters reject requests when the
	// limit store is down instead of letting them through.
	limitPolicy := middleware.FailOpen
	if s.flags.Enabled("strict_rate_limits", 0) {
		limitPolicy = middleware.FailClosed
	}

	// Content routes
	contents := protected.Group("/contents")
	contents.Post("/", middleware.RateLimitWithPolicy(
		s.redis, 10, 5*time.Minute, limitPolicy, "create_content"), s.CreateContent)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	contents.Post("/:id/like", s.ToggleInteraction("like"))
	contents.Post("/:id/save", s.ToggleInteraction("save"))
	contents.Post("/:id/share", s.ToggleInteraction("share"))
	contents.Post("/:id/view", s.ToggleInteraction("view"))
	contents.Get("/:id/like", s.InteractionStatus("like"))
	contents.Get("/:id/save", s.InteractionStatus("save"))
	contents.Get("/:id/share", s.InteractionStatus("share"))
	contents.Get("/:id/view", s.InteractionStatus("view"))
	contents.Get("/:id/comments", s.GetComments)
	contents.Post("/:id/comments", middleware.RateLimitWithPolicy(
		s.redis, 15, time.Minute, limitPolicy, "create_comment"), s.CreateComment)
	contents.Delete("/:id/comments/:commentId", s.DeleteComment)
	contents.Post("/:id/archive", s.ArchiveContent)
	contents.Post("/:id/unarchive", s.UnarchiveContent)
	// Generic /:id routes (for item detail, delete)
	contents.Get("/:id", s.GetContent)
	contents.Delete("/:id", s.DeleteContent)

	// Ranked interaction views for the authenticated user
	me := protected.Group("/me")
	me.Get("/interactions", s.GetMyInteractions)
	me.Get("/flags", s.GetFeatureFlags)

	// Relationship routes
	users := protected.Group("/users")
	users.Post("/:userId/follow", middleware.RateLimitWithPolicy(
		s.redis, 30, time.Minute, limitPolicy, "follow"), s.FollowUser)
	users.Delete("/:userId/follow", s.UnfollowUser)
	users.Get("/:userId/follow", s.GetFollowStatus)
	users.Get("/:userId/followers", s.GetRelations("followers"))
	users.Get("/:userId/following", s.GetRelations("following"))

	// Websocket endpoint - token auth accepts query param for browser clients
	app.Get("/ws", middleware.WebSocketAuthRequired, s.WebsocketHandler())
}

// GetFeatureFlags handles GET /api/me/flags, returning flag status evaluated
// for the authenticated user so clients can gate rollout features.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"flags": s.flags.Snapshot(currentUserID(c))})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional; readiness only degrades, it does not fail.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown drains websocket connections and detaches the event bus.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hubCancel != nil {
		s.hubCancel()
	}
	if s.busCancel != nil {
		s.busCancel()
	}
	if s.hub != nil {
		return s.hub.Shutdown(ctx)
	}
	return nil
}
