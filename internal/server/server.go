// Package server contains the HTTP and WebSocket handlers for the brokerage API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "brokerage/docs" // swagger docs
	"brokerage/internal/cache"
	"brokerage/internal/config"
	"brokerage/internal/database"
	"brokerage/internal/mailer"
	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/notifications"
	"brokerage/internal/repository"
	"brokerage/internal/search"
	"brokerage/internal/service"
	"brokerage/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
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
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	store     storage.ObjectStore
	mailer    mailer.Mailer
	indexer   *search.Indexer
	scheduler *search.Scheduler
	notifier  *notifications.Notifier
	hub       *notifications.Hub

	propertyRepo   repository.PropertyRepository
	leadRepo       repository.LeadRepository
	blogRepo       repository.BlogRepository
	subscriberRepo repository.SubscriberRepository
	contactRepo    repository.ContactRepository
	adminRepo      repository.AdminRepository

	propertyService   *service.PropertyService
	leadService       *service.LeadService
	blogService       *service.BlogService
	contactService    *service.ContactService
	newsletterService *service.NewsletterService
	uploadService     *service.UploadService
	authService       *service.AuthService
	sitemapService    *service.SitemapService
	statsService      *service.StatsService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional: without it caching, rate limiting and cross-instance
	// revalidation are disabled.
	redisClient := cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Object storage, mail delivery and search are built from cfg.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("object storage init failed: %w", err)
	}

	mail, err := mailer.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("mailer init failed: %w", err)
	}

	indexer := search.NewIndexer(cfg.MeilisearchHost, cfg.MeilisearchAPIKey)
	if err := indexer.InitIndex(); err != nil {
		middleware.Logger.Warn("search index setup failed, search falls back to listing filter",
			slog.String("error", err.Error()))
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("brokerage-api"),
		store:          store,
		mailer:         mail,
		indexer:        indexer,
		hub:            notifications.NewHub(),
		propertyRepo:   repository.NewPropertyRepository(db),
		leadRepo:       repository.NewLeadRepository(db),
		blogRepo:       repository.NewBlogRepository(db),
		subscriberRepo: repository.NewSubscriberRepository(db),
		contactRepo:    repository.NewContactRepository(db),
		adminRepo:      repository.NewAdminRepository(db),
	}
	server.scheduler = search.NewScheduler(indexer, server.propertyRepo)

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	server.initServices()
	return server, nil
}

// ApplySchema brings the database schema up to date according to the
// configured schema mode.
func (s *Server) ApplySchema(ctx context.Context) error {
	return database.ApplySchema(ctx, s.db, s.config)
}

// initServices builds the service layer from the repositories and clients
// already set on s.
func (s *Server) initServices() {
	var publisher service.RevalidatePublisher = localPublisher{hub: s.hub}
	if s.notifier != nil {
		publisher = s.notifier
	}
	revalidator := service.NewRevalidator(publisher)
	brand := mailer.Brand{Name: s.config.BrandName, SiteURL: s.config.SiteURL}

	s.propertyService = service.NewPropertyService(s.propertyRepo, revalidator, s.indexer)
	s.leadService = service.NewLeadService(s.leadRepo, revalidator)
	s.blogService = service.NewBlogService(s.blogRepo, revalidator)
	s.contactService = service.NewContactService(s.contactRepo, s.mailer, brand, s.config.AdminNotifyEmail)
	s.newsletterService = service.NewNewsletterService(s.subscriberRepo, s.mailer, brand)
	s.uploadService = service.NewUploadService(s.store, s.config.UploadMaxSizeMB)
	s.authService = service.NewAuthService(s.adminRepo, s.config.JWTSecret)
	s.sitemapService = service.NewSitemapService(s.propertyRepo, s.blogRepo, s.config.SiteURL)
	s.statsService = service.NewStatsService(s.propertyRepo, s.leadRepo, s.blogRepo, s.subscriberRepo, s.contactRepo)
}

// NewApp returns a Fiber app with the server's error handler and body limit.
func (s *Server) NewApp() *fiber.App {
	maxMB := s.config.UploadMaxSizeMB
	if maxMB <= 0 {
		maxMB = service.DefaultUploadMaxSizeMB
	}

	return fiber.New(fiber.Config{
		AppName: "Brokerage API",
		// Leave headroom above the upload cap for the multipart envelope.
		BodyLimit: (maxMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Tracing runs before the context middleware so the trace id reaches log lines.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))

	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))

	// Admin session check for every protected path.
	app.Use(middleware.RouteGuard(s.config.JWTSecret))
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
	api.Get("/admin/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Brokerage API Metrics",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Search engines
	app.Get("/sitemap.xml", s.Sitemap)
	app.Get("/robots.txt", s.Robots)

	// Uploaded media served by the local storage driver.
	if s.config.StorageDriver == "local" && strings.HasPrefix(s.config.StoragePublicURL, "/") {
		app.Static(s.config.StoragePublicURL, s.config.StorageDir, fiber.Static{
			MaxAge: 86400,
		})
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)
	auth.Get("/me", s.Me)

	// Public property routes. Specific paths before the generic /:id route.
	properties := api.Group("/properties")
	properties.Get("/", s.GetProperties)
	properties.Get("/featured", s.GetFeaturedProperties)
	properties.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "search"), s.SearchProperties)
	properties.Get("/:id", s.GetProperty)

	// Public blog routes
	blog := api.Group("/blog")
	blog.Get("/", s.GetBlogPosts)
	blog.Get("/:slug", s.GetBlogPost)

	// Public forms
	api.Post("/contact", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "contact"), s.SubmitContact)
	api.Post("/leads", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "lead"), s.SubmitLead)
	api.Post("/newsletter/subscribe", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "subscribe"), s.Subscribe)

	// Upload alias kept for older admin clients; RouteGuard protects POST.
	api.Post("/upload", s.UploadMedia)

	// Revalidation events for open pages
	api.Get("/ws/revalidate", s.RevalidateWebsocketHandler())

	// Admin routes (RouteGuard has already authenticated everything under /api/admin)
	admin := api.Group("/admin")

	adminProperties := admin.Group("/properties")
	adminProperties.Get("/", s.AdminListProperties)
	adminProperties.Post("/", s.CreateProperty)
	adminProperties.Get("/:id", s.AdminGetProperty)
	adminProperties.Put("/:id", s.UpdateProperty)
	adminProperties.Delete("/:id", s.DeleteProperty)
	adminProperties.Post("/reindex", s.ReindexProperties)

	adminLeads := admin.Group("/leads")
	adminLeads.Get("/", s.AdminListLeads)
	adminLeads.Post("/", s.CreateLead)
	adminLeads.Patch("/:id/status", s.UpdateLeadStatus)
	adminLeads.Get("/:id", s.AdminGetLead)
	adminLeads.Put("/:id", s.UpdateLead)
	adminLeads.Delete("/:id", s.DeleteLead)

	adminBlog := admin.Group("/blog")
	adminBlog.Get("/", s.AdminListBlogPosts)
	adminBlog.Post("/", s.CreateBlogPost)
	adminBlog.Get("/:id", s.AdminGetBlogPost)
	adminBlog.Put("/:id", s.UpdateBlogPost)
	adminBlog.Delete("/:id", s.DeleteBlogPost)

	admin.Post("/upload", s.UploadMedia)
	admin.Post("/newsletter/broadcast", s.BroadcastNewsletter)
	admin.Get("/contact-messages", s.AdminListContactMessages)
	admin.Get("/stats", s.AdminStats)
}

// LivenessCheck handles liveness check requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness check requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unhealthy"
	} else if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional; its absence degrades caching but not readiness.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	storageStatus := "healthy"
	if s.store == nil {
		storageStatus = "unavailable"
	} else if err := s.store.Ping(ctx); err != nil {
		storageStatus = "unhealthy"
	}

	searchStatus := "disabled"
	if s.indexer.Enabled() {
		searchStatus = "enabled"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" || storageStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
			"storage":  storageStatus,
			"search":   searchStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the Fiber app, starts background workers and listens on the
// configured port. It blocks until the listener stops.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.NewApp()
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Forward revalidation events from every instance to this instance's listeners.
	if s.notifier != nil {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Error("failed to start revalidate wiring", slog.String("error", err.Error()))
		}
	}

	if err := s.scheduler.Start(s.config.SearchReindexSchedule); err != nil {
		middleware.Logger.Error("failed to schedule search reindex", slog.String("error", err.Error()))
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port), slog.String("env", s.config.Env))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the pub/sub subscriber.
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.scheduler != nil {
		s.scheduler.Stop()
	}

	// Close WebSocket connections gracefully
	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down revalidate hub", slog.String("error", err.Error()))
		}
	}

	if s.db != nil {
		if err := database.Close(s.db); err != nil {
			middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
