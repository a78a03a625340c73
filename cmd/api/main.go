package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/card-directory/internal/api/http"
	"github.com/spec-kit/card-directory/internal/api/http/handlers"
	"github.com/spec-kit/card-directory/internal/auth"
	"github.com/spec-kit/card-directory/internal/config"
	"github.com/spec-kit/card-directory/internal/events"
	"github.com/spec-kit/card-directory/internal/observability"
	"github.com/spec-kit/card-directory/internal/persistence"
	"github.com/spec-kit/card-directory/internal/repository"
	"github.com/spec-kit/card-directory/internal/repository/memory"
	"github.com/spec-kit/card-directory/internal/service"
	"github.com/spec-kit/card-directory/internal/validation"
	"github.com/spec-kit/card-directory/internal/worker"
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo repository.UserRepository
		cardRepo repository.CardRepository
	)
	if pg.Enabled() {
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		cardRepo = repository.NewCardRepository(pg.PoolHandle())
	} else {
		store := memory.NewStore()
		userRepo = store.Users()
		cardRepo = store.Cards()
	}

	dispatcher := events.NewInMemoryDispatcher()
	var publisher service.ActivityPublisher
	if redis.Enabled() {
		publisher = redis
	}
	worker.StartActivityWorker(service.NewActivityService(dispatcher, logger, publisher, cfg.Redis.ActivityChannel))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	userService, err := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		logger.Fatal("failed to init user service", zap.Error(err))
	}
	cardService := service.NewCardService(service.CardDependencies{
		CardRepo:   cardRepo,
		Dispatcher: dispatcher,
	})

	validator := validation.New()
	metrics := observability.NewMetrics()

	app := httptransport.NewApp(logger, metrics,
		httptransport.MiddlewareConfig{
			Timeout:      cfg.App.RequestTimeout(),
			AllowOrigins: cfg.CORS.AllowOrigins,
		},
		httptransport.RouteConfig{
			Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, map[string]handlers.Pinger{
				"postgres": pg,
				"redis":    redis,
			}),
			Users:          handlers.NewUsersHandler(userService, validator),
			Cards:          handlers.NewCardsHandler(cardService, validator),
			AuthMiddleware: auth.NewAuthMiddleware(tokens),
		})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
