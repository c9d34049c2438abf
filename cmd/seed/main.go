// Command seed fills a development database with demo users, ideas and
// likes.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/forgo/ideaboard/api/internal/config"
	"github.com/forgo/ideaboard/api/internal/database"
	"github.com/forgo/ideaboard/api/internal/repository"
	"github.com/forgo/ideaboard/api/internal/service"
	"github.com/forgo/ideaboard/api/migrations"
)

func main() {
	ideas := flag.Int("ideas", 12, "Number of ideas to create")
	password := flag.String("password", "", "Password for the demo users (default password123)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.IsProduction() {
		slog.Error("refusing to seed a production database")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

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

	if err := database.Migrate(ctx, db, migrations.Files); err != nil {
		slog.Error("failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	ideaService := service.NewIdeaService(service.IdeaServiceConfig{
		IdeaRepo:         repository.NewIdeaRepository(db),
		Users:            userRepo,
		OperationTimeout: cfg.Ideas.OperationTimeout,
		ToggleRetries:    cfg.Ideas.ToggleRetries,
	})
	seeder := service.NewSeeder(service.SeederConfig{
		Users: userRepo,
		Ideas: ideaService,
	})

	result, err := seeder.Seed(ctx, service.SeedRequest{Ideas: *ideas, Password: *password})
	if err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed complete",
		slog.Int("users", len(result.Users)),
		slog.Int("ideas", len(result.Ideas)),
		slog.Int("likes", result.Likes),
		slog.Duration("duration", result.Duration),
	)
}
