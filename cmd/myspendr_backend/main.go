package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/core/services"
	"github.com/SscSPs/myspendr/internal/handlers"
	"github.com/SscSPs/myspendr/internal/middleware"
	"github.com/SscSPs/myspendr/internal/notification"
	"github.com/SscSPs/myspendr/internal/platform/config"
	"github.com/SscSPs/myspendr/internal/repositories/database/pgsql"
	"github.com/SscSPs/myspendr/internal/repositories/memory"
	"github.com/SscSPs/myspendr/internal/utils"
	"github.com/SscSPs/myspendr/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title MySpendr Backend API
// @version 1.0
// @description Personal capital ledger with monthly category budgets and chat intake.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	var telegramClient *notification.TelegramClient
	if cfg.TelegramBotToken != "" {
		telegramClient = notification.NewTelegramClient(cfg.TelegramAPIBaseURL, cfg.TelegramBotToken, nil)
	}

	notifier, closeNotifier := setupNotifier(cfg, repos, telegramClient, logger)
	defer closeNotifier()

	container := services.NewServiceContainer(services.ContainerConfig{
		SessionTTL:   cfg.IntakeSessionTTL,
		LinkTokenTTL: cfg.LinkTokenTTL,
		Clock:        time.Now,
	}, repos, notifier)
	if telegramClient != nil {
		container.ChatAck = telegramClient
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		logger.Info("Rate limiter backed by Redis.")
	}
	limiterInstance, err := middleware.NewLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.PosthogMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	if err := handlers.RegisterRoutes(r, cfg, container, limiterInstance); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageBackend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageBackend == config.StorageMemory {
		logger.Info("Using in-memory storage.")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := pgsql.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), dbPool.Close, nil
}

// setupNotifier wraps each configured channel in its own circuit breaker.
func setupNotifier(cfg *config.Config, repos portsrepo.RepositoryProvider, telegramClient *notification.TelegramClient, logger *slog.Logger) (portssvc.NotificationGateway, func()) {
	breakerCfg := notification.DefaultBreakerConfig(cfg.NotifierBreakerTimeout)
	gateways := notification.FanOut{notification.LogGateway{}}
	closers := []func(){}

	if cfg.AMQPURL != "" {
		amqpGateway, err := notification.NewAMQPGateway(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("AMQP notifier disabled", slog.String("error", err.Error()))
		} else {
			gateways = append(gateways, notification.NewBreakerGateway("amqp", amqpGateway, breakerCfg, logger))
			closers = append(closers, func() {
				if err := amqpGateway.Close(); err != nil {
					logger.Warn("Error closing AMQP notifier", slog.String("error", err.Error()))
				}
			})
		}
	}

	if telegramClient != nil {
		gateways = append(gateways, notification.NewBreakerGateway("telegram", notification.NewTelegramGateway(telegramClient, repos.ChatLinkRepo), breakerCfg, logger))
	}

	return gateways, func() {
		for _, c := range closers {
			c()
		}
	}
}
