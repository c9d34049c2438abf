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

	"github.com/redis/go-redis/v9"

	"github.com/forgo/ideaboard/api/internal/cache"
	"github.com/forgo/ideaboard/api/internal/config"
	"github.com/forgo/ideaboard/api/internal/database"
	"github.com/forgo/ideaboard/api/internal/events"
	"github.com/forgo/ideaboard/api/internal/handler"
	"github.com/forgo/ideaboard/api/internal/jobs"
	"github.com/forgo/ideaboard/api/internal/middleware"
	"github.com/forgo/ideaboard/api/internal/repository"
	"github.com/forgo/ideaboard/api/internal/service"
	"github.com/forgo/ideaboard/api/migrations"
	"github.com/forgo/ideaboard/api/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	var level slog.Level
	_ = level.UnmarshalText([]byte(cfg.Server.LogLevel))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db, migrations.Files); err != nil {
			slog.Error("failed to apply schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// The API only verifies tokens, so the private key is optional here.
	tokens, err := jwt.NewService(jwt.Config{
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	ideaRepo := repository.NewIdeaRepository(db)
	userRepo := repository.NewUserRepository(db)

	var (
		directory   service.UserDirectory = userRepo
		idempotency *middleware.IdempotencyStore
		redisClient *redis.Client
	)
	if cfg.Redis.URL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			slog.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = redisClient.Close() }()

		directory = cache.NewCachedDirectory(userRepo, cache.NewNameCache(redisClient, cfg.Redis.NameCacheTTL))
		idempotency = middleware.NewIdempotencyStore(redisClient, middleware.IdempotencyConfig{
			TTL: cfg.Redis.IdempotencyTTL,
		})
		slog.Info("redis enabled for name cache and idempotency")
	}

	var publisher service.EventPublisher
	if cfg.NATS.URL != "" {
		p, err := events.Connect(events.Config{
			URL:           cfg.NATS.URL,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
		})
		if err != nil {
			slog.Error("failed to connect to nats", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = p.Close() }()
		publisher = p
		slog.Info("publishing idea events", slog.String("prefix", cfg.NATS.SubjectPrefix))
	}

	// Initialize services
	ideaService := service.NewIdeaService(service.IdeaServiceConfig{
		IdeaRepo:         ideaRepo,
		Users:            directory,
		Events:           publisher,
		DefaultPageSize:  cfg.Ideas.DefaultPageSize,
		MaxPageSize:      cfg.Ideas.MaxPageSize,
		OperationTimeout: cfg.Ideas.OperationTimeout,
		ToggleRetries:    cfg.Ideas.ToggleRetries,
	})

	// Start background jobs
	if cfg.Ideas.ReconcileInterval > 0 {
		reconciler := jobs.NewLikeCountReconciler(ideaRepo, cfg.Ideas.ReconcileInterval)
		reconciler.Start()
		defer reconciler.Stop()
	}

	// Initialize handlers
	ideaHandler := handler.NewIdeaHandler(ideaService)
	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler := handler.NewHealthHandler(checks)

	// Create router and register routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	ideaHandler.RegisterRoutes(mux, middleware.Auth(tokens), middleware.Idempotency(idempotency))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
