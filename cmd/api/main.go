package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JungUiJin/faicial-ai-test/internal/api"
	"github.com/JungUiJin/faicial-ai-test/internal/api/handler"
	"github.com/JungUiJin/faicial-ai-test/internal/api/middleware"
	"github.com/JungUiJin/faicial-ai-test/internal/config"
	"github.com/JungUiJin/faicial-ai-test/internal/database"
	"github.com/JungUiJin/faicial-ai-test/internal/face"
	"github.com/JungUiJin/faicial-ai-test/internal/repository"
	"github.com/JungUiJin/faicial-ai-test/internal/service"
	"github.com/JungUiJin/faicial-ai-test/internal/visual"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting Faicial API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.Bool("database", cfg.HasDatabase()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := face.NewProviders(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to configure providers: %w", err)
	}

	renderer, err := visual.NewRenderer(cfg.ReportFontPath)
	if err != nil {
		return fmt.Errorf("failed to load report font: %w", err)
	}

	svc := service.NewAnalysisService(providers.Detector, renderer, logger).
		WithMaxImagePixels(cfg.MaxImagePixels)
	if providers.Gate != nil {
		svc = svc.WithGate(providers.Gate, cfg.GateMargin)
	}

	deps := &api.Dependencies{
		Service: svc,
		Checks:  map[string]handler.Checker{},
	}
	if providers.Health != nil {
		deps.Checks["detector"] = providers.Health
	}

	if cfg.HasDatabase() {
		pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		wireDatabase(pool, svc, deps, logger)
	} else {
		logger.Warn("DATABASE_URL not set, API key auth and usage counters are disabled")
	}

	router := api.NewRouter(logger, cfg, deps)
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")
	return nil
}

// wireDatabase enables API key auth, usage counters and the database probe
func wireDatabase(pool *pgxpool.Pool, svc *service.AnalysisService, deps *api.Dependencies, logger *slog.Logger) {
	apiKeys := repository.NewAPIKeyRepository(pool)
	usage := repository.NewUsageRepository(pool)

	svc.WithUsage(usage)

	worker := middleware.NewLastUsedWorker(apiKeys, logger, middleware.DefaultLastUsedWorkerConfig())
	worker.Start()

	deps.APIKeys = apiKeys
	deps.Usage = usage
	deps.LastUsedWorker = worker
	deps.Checks["database"] = handler.CheckerFunc(func(ctx context.Context) error {
		return database.HealthCheck(ctx, pool)
	})
}
