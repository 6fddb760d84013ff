package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/bloodbound-service/internal/api/http"
	"github.com/spec-kit/bloodbound-service/internal/api/http/handlers"
	"github.com/spec-kit/bloodbound-service/internal/auth"
	"github.com/spec-kit/bloodbound-service/internal/authprovider"
	"github.com/spec-kit/bloodbound-service/internal/config"
	"github.com/spec-kit/bloodbound-service/internal/events"
	"github.com/spec-kit/bloodbound-service/internal/observability"
	"github.com/spec-kit/bloodbound-service/internal/persistence"
	"github.com/spec-kit/bloodbound-service/internal/repository"
	"github.com/spec-kit/bloodbound-service/internal/service"
	"github.com/spec-kit/bloodbound-service/internal/store"
	"github.com/spec-kit/bloodbound-service/internal/worker"
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

	recordStore, cleanup := buildRecordStore(ctx, cfg.RecordStore, logger)
	defer cleanup()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	profileRepo := repository.NewProfileRepository(recordStore, logger)
	providerClient := authprovider.NewClient(cfg.AuthProvider)

	profileService := service.NewProfileService(service.ProfileDependencies{
		ProfileRepo: profileRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	authService := service.NewAuthService(service.AuthDependencies{
		Provider:    providerClient,
		ProfileRepo: profileRepo,
		Logger:      logger,
	})
	userService := service.NewUserService(recordStore, redis.ClientHandle(), cfg.Redis.UserCacheTTL(), logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, recordStore, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Profile:        handlers.NewProfileHandler(profileService, metrics),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: auth.NewMiddleware(),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildRecordStore picks the store backend from configuration and
// returns it with a cleanup func for any owned resources.
func buildRecordStore(ctx context.Context, cfg config.RecordStoreConfig, logger *zap.Logger) (store.RecordStore, func()) {
	switch cfg.Driver {
	case "postgres":
		pg, err := persistence.NewPostgres(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		if cfg.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		return store.NewPostgresStore(pg.PoolHandle()), pg.Close
	case "memory":
		logger.Warn("using in-memory record store; data will not survive restarts")
		return store.NewMemoryStore(), func() {}
	default:
		if cfg.BaseURL == "" {
			logger.Warn("RECORD_STORE_BASE_URL not provided; falling back to in-memory store")
			return store.NewMemoryStore(), func() {}
		}
		return store.NewHTTPStore(cfg, logger), func() {}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
