package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bookcatalog/internal/platform/config"
	"bookcatalog/internal/platform/database"
	"bookcatalog/internal/platform/logger"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

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

	dir := cfg.MigrationsDir

	if *command == "create" {
		if *name == "" {
			log.Fatal("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			log.Fatal("failed to create migration", zap.Error(err))
		}
		log.Info("migration created", zap.String("name", *name), zap.String("dir", dir))
		return
	}

	if err := checkDriver(cfg.DBDriver); err != nil {
		log.Fatal("cannot migrate", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.OpenPool(ctx, cfg.DBDSN, cfg.DBTimeout)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("failed to set dialect", zap.Error(err))
	}

	switch *command {
	case "up":
		if err := goose.UpContext(ctx, db, dir); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("migrations applied", zap.String("dir", dir))
	case "down":
		if err := goose.DownContext(ctx, db, dir); err != nil {
			log.Fatal("failed to roll back migration", zap.Error(err))
		}
		log.Info("migration rolled back", zap.String("dir", dir))
	case "status":
		if err := goose.StatusContext(ctx, db, dir); err != nil {
			log.Fatal("failed to check migration status", zap.Error(err))
		}
	default:
		log.Fatal(fmt.Sprintf("unknown command %q, use: up, down, status, create", *command))
	}
}

// checkDriver rejects drivers whose schema goose does not manage. The sqlite
// store migrates itself on startup.
func checkDriver(driver string) error {
	switch driver {
	case config.DriverPgx, config.DriverGormPostgres:
		return nil
	default:
		return fmt.Errorf("goose migrations target postgres, DB_DRIVER is %q", driver)
	}
}
