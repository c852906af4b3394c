package api

import (
	"log/slog"
	"time"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/JungUiJin/faicial-ai-test/internal/api/docs"
	"github.com/JungUiJin/faicial-ai-test/internal/api/handler"
	"github.com/JungUiJin/faicial-ai-test/internal/api/middleware"
	"github.com/JungUiJin/faicial-ai-test/internal/config"
)

// bodyLimitSlack leaves room for multipart framing around the image itself
const bodyLimitSlack = 64 * 1024

type Dependencies struct {
	Service handler.AnalysisService

	// Optional; set together when a database is configured
	APIKeys        middleware.APIKeyLookup
	Usage          handler.UsageReader
	LastUsedWorker *middleware.LastUsedWorker

	// Readiness probes by name; nil entries are skipped
	Checks map[string]handler.Checker
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	cfg         *config.Config
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, cfg *config.Config, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Faicial API",
		BodyLimit:    cfg.MaxImageBytes + bodyLimitSlack,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	})

	return &Router{
		app:    app,
		logger: logger,
		cfg:    cfg,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.AllowedOrigins(),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	swagger.SwaggerHandler(r.app, docs.NewSwagger().MustToJson())

	var checks map[string]handler.Checker
	if r.deps != nil {
		checks = r.deps.Checks
	}
	healthHandler := handler.NewHealthHandler(checks)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil || r.deps.Service == nil {
		return
	}

	v1 := r.app.Group("/v1")

	// Without a database every caller is anonymous and limited by IP
	if r.deps.APIKeys != nil {
		authDeps := middleware.AuthDependencies{APIKeys: r.deps.APIKeys}
		if r.deps.LastUsedWorker != nil {
			authDeps.LastUsed = r.deps.LastUsedWorker
		}
		v1.Use(middleware.Auth(authDeps))
	}

	r.rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Max:          r.cfg.RateLimitPerMinute,
		Window:       time.Minute,
		KeyGenerator: middleware.ClientKey,
	})
	v1.Use(r.rateLimiter.Handler())

	analysisHandler := handler.NewAnalysisHandler(r.deps.Service, int64(r.cfg.MaxImageBytes))
	v1.Post("/analyze", analysisHandler.Analyze)
	v1.Post("/debug/landmarks", analysisHandler.DebugLandmarks)

	if r.deps.Usage != nil && r.deps.APIKeys != nil {
		usageHandler := handler.NewUsageHandler(r.deps.Usage)
		v1.Get("/usage", usageHandler.GetUsage)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

// Shutdown stops accepting requests, then stops background workers
func (r *Router) Shutdown() error {
	err := r.app.Shutdown()

	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	if r.deps != nil && r.deps.LastUsedWorker != nil {
		r.deps.LastUsedWorker.Stop()
	}

	return err
}
