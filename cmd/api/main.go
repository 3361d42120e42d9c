package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hotel-it/helpdesk/internal/api/http"
	"github.com/hotel-it/helpdesk/internal/api/http/handlers"
	"github.com/hotel-it/helpdesk/internal/auth"
	"github.com/hotel-it/helpdesk/internal/config"
	"github.com/hotel-it/helpdesk/internal/events"
	"github.com/hotel-it/helpdesk/internal/observability"
	"github.com/hotel-it/helpdesk/internal/persistence"
	"github.com/hotel-it/helpdesk/internal/priority"
	"github.com/hotel-it/helpdesk/internal/repository"
	"github.com/hotel-it/helpdesk/internal/service"
	"github.com/hotel-it/helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rules, err := priority.LoadRules(cfg.Priority.RulesFile)
	if err != nil {
		logger.Fatal("failed to load priority rules", zap.String("file", cfg.Priority.RulesFile), zap.Error(err))
	}
	scorer := priority.NewScorer(rules)
	logger.Info("priority rules loaded",
		zap.Int("keyword_rules", len(rules.Keywords)),
		zap.Int("combo_rules", len(rules.Combos)),
		zap.Int("tag_weights", len(rules.Tags)),
		zap.Int("general_rules", len(rules.General)))

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	publisher := events.NewRedisStreamPublisher(redis.Client, cfg.Redis.EventStream, logger)
	worker.StartNotificationWorker(dispatcher, notifications, publisher)

	pool := pg.Pool()
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   repository.NewTicketRepository(pool),
		ResponseRepo: repository.NewResponseRepository(pool),
		Scorer:       scorer,
		Dispatcher:   dispatcher,
		Recorder:     metrics,
	})

	authMiddleware := auth.NewAuthMiddleware(auth.NewTokenVerifier(cfg.Auth))

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Support:        handlers.NewSupportHandler(ticketService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
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
