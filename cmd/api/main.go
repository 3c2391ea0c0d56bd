package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/api/http/handlers"
	"github.com/spec-kit/civic-report/internal/auth"
	"github.com/spec-kit/civic-report/internal/config"
	"github.com/spec-kit/civic-report/internal/events"
	"github.com/spec-kit/civic-report/internal/media"
	"github.com/spec-kit/civic-report/internal/observability"
	"github.com/spec-kit/civic-report/internal/persistence"
	"github.com/spec-kit/civic-report/internal/repository"
	"github.com/spec-kit/civic-report/internal/service"
	"github.com/spec-kit/civic-report/internal/store"
	"github.com/spec-kit/civic-report/internal/worker"

	httptransport "github.com/spec-kit/civic-report/internal/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var userRepo repository.UserRepository
	var issueRepo repository.IssueRepository
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		issueRepo = repository.NewIssueRepository(pool)
	} else {
		userRepo = store.NewMemoryUserRepository()
		issueRepo = store.NewMemoryIssueRepository()
	}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(userRepo, tokenManager, cfg.Auth.BcryptCost)
	authMiddleware := auth.NewMiddleware(tokenManager, userRepo)

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger).RegisterHandlers()

	gate := media.NewGate()
	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:  issueRepo,
		UserRepo:   userRepo,
		Gate:       gate,
		Dispatcher: dispatcher,
	})

	var tickLock worker.TickLock
	if redis.Client != nil {
		tickLock = worker.NewRedisTickLock(redis.Client, "civic-report:escalation-lock", cfg.Escalation.Interval())
	}
	escalator := worker.NewEscalator(cfg.Escalation, worker.EscalatorDependencies{
		IssueRepo:  issueRepo,
		Dispatcher: dispatcher,
		Lock:       tickLock,
		Logger:     logger,
	})
	if err := escalator.Start(); err != nil {
		logger.Fatal("failed to start escalation scheduler", zap.Error(err))
	}

	app := fiber.New(fiber.Config{BodyLimit: 32 * 1024 * 1024})
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		Auth:           handlers.NewAuthHandler(authService),
		Issues:         handlers.NewIssuesHandler(issueService),
		Verify:         handlers.NewVerifyHandler(gate),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	escalator.Stop()
	_ = app.ShutdownWithTimeout(5 * time.Second)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
