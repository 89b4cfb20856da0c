package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/api/http"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/api/http/handlers"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/auth"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/config"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/events"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/observability"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/persistence"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/repository"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/service"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/session"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/worker"
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

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	sessionStore := session.NewRedisStore(redis.Client, logger)
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	dispatcher := events.NewInMemoryDispatcher()
	worker.NewAuditWorker(dispatcher, logger).Start()

	switchService := service.NewRoleSwitchService(cfg.Auth, service.RoleSwitchDependencies{
		UserRepo:     userRepo,
		SessionStore: sessionStore,
		TokenManager: tokenManager,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	authMiddleware := auth.NewAuthMiddleware(tokenManager, sessionStore, logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(switchService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
