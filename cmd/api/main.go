package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/helpdesk/chamados/internal/api/http"
	"github.com/helpdesk/chamados/internal/api/http/handlers"
	"github.com/helpdesk/chamados/internal/auth"
	"github.com/helpdesk/chamados/internal/config"
	"github.com/helpdesk/chamados/internal/events"
	"github.com/helpdesk/chamados/internal/flash"
	"github.com/helpdesk/chamados/internal/observability"
	"github.com/helpdesk/chamados/internal/persistence"
	"github.com/helpdesk/chamados/internal/repository"
	"github.com/helpdesk/chamados/internal/service"
	"github.com/helpdesk/chamados/internal/storage"
	"github.com/helpdesk/chamados/internal/worker"
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

	store, err := storage.NewLocalStore(cfg.Storage.UploadRoot, logger)
	if err != nil {
		logger.Fatal("failed to init upload storage", zap.Error(err))
	}

	permissions, err := auth.NewPermissions()
	if err != nil {
		logger.Fatal("failed to init permission enforcer", zap.Error(err))
	}

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)

	flashes := flash.NewStore(redis.Client, logger)
	tokens := auth.NewTokenManager(cfg.Session)
	sessions := auth.NewSessionMiddleware(tokens, accountRepo, profileRepo, flashes)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(accountRepo, profileRepo)
	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		Transactor:  pg,
		AccountRepo: accountRepo,
		ProfileRepo: profileRepo,
		BcryptCost:  cfg.Session.BcryptCost,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		Transactor:     pg,
		TicketRepo:     ticketRepo,
		AccountRepo:    accountRepo,
		ProfileRepo:    profileRepo,
		HistoryRepo:    historyRepo,
		AttachmentRepo: attachmentRepo,
		Store:          store,
		Permissions:    permissions,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	views, err := httptransport.ViewsEngine()
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		Views:                 views,
		DisableStartupMessage: true,
	})

	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	app.Static("/media", cfg.Storage.UploadRoot)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:    handlers.NewAuthHandler(authService, registrationService, tokens, flashes, logger),
		Tickets: handlers.NewTicketsHandler(ticketService, flashes, logger),
		Session: sessions,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
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
