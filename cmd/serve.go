package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"smartapp-notes/smartapp/broker"
	"smartapp-notes/smartapp/config"
	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/logger"
	"smartapp-notes/smartapp/middleware"
	"smartapp-notes/smartapp/routes"
	"smartapp-notes/smartapp/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  "Start the HTTP server with the JSON API, the web pages and the event dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), config.Load())
		},
	}
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.IsDevelopment())
}

func runServer(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Setup(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	loc := cfg.Location()

	webSocketService := services.NewWebSocketService(cfg.Origins(), log)
	webSocketService.Start()
	defer webSocketService.Stop()

	publishers := broker.MultiPublisher{webSocketService}
	if cfg.NatsURL != "" {
		natsPublisher, err := broker.ConnectNats(cfg.NatsURL, log)
		if err != nil {
			log.Warnw("NATS unavailable, events will only reach websocket clients", "error", err)
		} else {
			defer natsPublisher.Close()
			publishers = append(publishers, natsPublisher)
		}
	}

	eventHandlerService := services.NewEventHandlerService(db, publishers, log, cfg.EventPollInterval)
	eventHandlerService.Start(ctx)
	defer eventHandlerService.Stop()

	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours, services.UserServiceInstance)
	services.AuthServiceInstance = authService
	todoService := services.NewTodoService(loc)
	services.TodoServiceInstance = todoService

	limiter, closeLimiter := newLimiter(ctx, cfg, log)
	defer closeLimiter()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := routes.NewRouter(routes.Dependencies{
		DB:                 db,
		Log:                log,
		AuthService:        authService,
		NoteService:        services.NoteServiceInstance,
		TodoService:        todoService,
		DashboardService:   services.DashboardServiceInstance,
		WebSocketService:   webSocketService,
		Limiter:            limiter,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		AllowedOrigins:     cfg.Origins(),
		Location:           loc,
		SecureCookies:      cfg.SecureCookies(),
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server listening", "addr", srv.Addr, "environment", cfg.AppEnv, "time_zone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newLimiter prefers a shared Redis window and falls back to per-process buckets.
func newLimiter(ctx context.Context, cfg config.Config, log *logger.Logger) (middleware.Limiter, func()) {
	if cfg.RateLimitPerMinute <= 0 {
		return nil, func() {}
	}
	if cfg.RedisAddr == "" {
		return middleware.NewMemoryLimiter(cfg.RateLimitPerMinute), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warnw("redis unavailable, using in-memory rate limiting", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return middleware.NewMemoryLimiter(cfg.RateLimitPerMinute), func() {}
	}

	log.Infow("rate limiting backed by redis", "addr", cfg.RedisAddr)
	limiter := middleware.NewRedisLimiter(client, middleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		KeyPrefix:         "smartapp:ratelimit:",
	})
	return limiter, func() { _ = client.Close() }
}
