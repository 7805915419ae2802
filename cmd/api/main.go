package main

import (
	"context"
	"fmt"
	"os"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/config"
	"bookcatalog/internal/platform/database"
	"bookcatalog/internal/platform/logger"

	"go.uber.org/zap"
)

// store is a book repository that can report its readiness.
type store interface {
	book.Repository
	Ping(ctx context.Context) error
}

type application struct {
	config config.Config
	logger *zap.Logger
	store  store
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("cannot open book store", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer closeStore()
	log.Info("database connection OK", zap.String("driver", cfg.DBDriver))

	app := &application{config: cfg, logger: log, store: repo}
	if err := app.serve(ctx); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

// openStore selects the repository implementation named by DB_DRIVER.
func openStore(ctx context.Context, cfg config.Config) (store, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPgx:
		pool, err := database.OpenPool(ctx, cfg.DBDSN, cfg.DBTimeout)
		if err != nil {
			return nil, nil, err
		}
		return book.NewPostgresRepo(pool, cfg.DBTimeout), pool.Close, nil
	default:
		db, err := database.OpenGorm(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := book.NewGormRepo(db, cfg.DBTimeout)
		if err := repo.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate books: %w", err)
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo, closeFn, nil
	}
}
