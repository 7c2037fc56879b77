// Package server contains the HTTP handlers for the meetup board API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"meetup/internal/cache"
	"meetup/internal/config"
	"meetup/internal/featureflags"
	"meetup/internal/mailer"
	"meetup/internal/middleware"
	"meetup/internal/models"
	"meetup/internal/notifications"
	"meetup/internal/repository"
	"meetup/internal/service"

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
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	jwt            middleware.JWTConfig
	featureFlags   *featureflags.Manager
	notifier       *notifications.Notifier

	categoryService *service.CategoryService
	tagService      *service.TagService
	postService     *service.PostService
	commentService  *service.CommentService
	likeService     *service.LikeService
	userService     *service.UserService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; the cache and event bus are then skipped.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mail mailer.Mailer) (*Server, error) {
	flags := featureflags.NewManager(cfg.FeatureFlags)
	cache.SetEnabled(flags.Enabled(featureflags.PostCache, 0))

	notifier := notifications.NewNotifier(redisClient).WithGate(func(actorID uint) bool {
		return flags.Enabled(featureflags.DomainEvents, actorID)
	})

	postRepo := repository.NewPostRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("meetup-api"),
		jwt: middleware.JWTConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		},
		featureFlags: flags,
		notifier:     notifier,
	}
	s.categoryService = service.NewCategoryService(repository.NewCategoryRepository(db))
	s.tagService = service.NewTagService(repository.NewTagRepository(db))
	s.postService = service.NewPostService(postRepo, notifier)
	s.commentService = service.NewCommentService(repository.NewCommentRepository(db), postRepo, notifier)
	s.likeService = service.NewLikeService(repository.NewLikeRepository(db), notifier)
	s.userService = service.NewUserService(repository.NewUserRepository(db), mail)

	return s, nil
}

// Notifier exposes the domain event bus so callers can subscribe to it.
func (s *Server) Notifier() *notifications.Notifier {
	return s.notifier
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Meetup API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders errors that escaped a handler. Fiber errors (404 for
// unknown routes, 405 for unsupported methods) keep their status.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Detail: fe.Message})
	}
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			slog.String("path", c.Path()), slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, status, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		MaxAge:       86400,
	}))

	globalMax := s.config.GlobalRateMax
	if globalMax <= 0 {
		globalMax = 100
	}
	app.Use(limiter.New(limiter.Config{
		Max:        globalMax,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Detail: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	auth := middleware.AuthRequired(s.jwt)

	// Fixed segments are registered before the generic /posts/:id routes.
	categories := api.Group("/posts/categories")
	categories.Get("/", s.ListCategories)
	categories.Post("/", auth, s.CreateCategory)
	categories.Get("/:id", s.GetCategory)
	categories.Put("/:id", auth, s.UpdateCategory)
	categories.Delete("/:id", auth, s.DeleteCategory)

	tags := api.Group("/posts/tags")
	tags.Get("/", s.ListTags)
	tags.Post("/", auth, s.CreateTag)
	tags.Get("/:id", s.GetTag)
	tags.Delete("/:id", auth, s.DeleteTag)
	tags.Put("/:id", methodNotAllowed)
	tags.Patch("/:id", methodNotAllowed)

	comments := api.Group("/posts/comments")
	comments.Get("/", s.ListComments)
	comments.Post("/", auth, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	comments.Get("/:id", s.GetComment)
	comments.Put("/:id", auth, s.UpdateComment)
	comments.Delete("/:id", auth, s.DeleteComment)

	likes := api.Group("/posts/likes", auth)
	likes.Post("/", middleware.RateLimit(
		s.redis, 30, time.Minute, "create_like"), s.LikePost)
	likes.Delete("/", s.UnlikePost)

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Post("/", auth, middleware.RateLimit(
		s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:id", s.GetPost)
	posts.Patch("/:id", auth, s.PatchPost)
	posts.Delete("/:id", auth, s.DeletePost)

	users := api.Group("/users")
	users.Post("/", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	users.Post("/verify", s.VerifyUser)
	users.Get("/me", auth, s.GetMyProfile)

	api.Get("/feature-flags", auth, s.GetFeatureFlags)
}

func methodNotAllowed(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", c.Method()))
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis reachability. Redis is optional:
// without it the service runs uncached, so only the database gates readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
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

// Start builds the app and blocks serving on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests and waits for in-flight ones. The
// database and Redis connections belong to the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}
