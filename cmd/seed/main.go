package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/config"
	"bookcatalog/internal/platform/database"
	"bookcatalog/internal/platform/logger"

	"go.uber.org/zap"
)

var words = []string{
	"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
	"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
	"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
	"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
}

var authors = []string{
	"Ada Palmer", "Ted Chiang", "N K Jemisin", "Liu Cixin", "Ann Leckie",
	"Martha Wells", "Becky Chambers", "Kim Stanley Robinson",
}

func main() {
	count := flag.Int("count", 100, "Number of books to generate")
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

	ctx := context.Background()

	var repo book.Repository
	switch cfg.DBDriver {
	case config.DriverPgx:
		pool, err := database.OpenPool(ctx, cfg.DBDSN, cfg.DBTimeout)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		repo = book.NewPostgresRepo(pool, cfg.DBTimeout)
	default:
		db, err := database.OpenGorm(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		gormRepo := book.NewGormRepo(db, cfg.DBTimeout)
		if err := gormRepo.Migrate(ctx); err != nil {
			log.Fatal("failed to migrate", zap.Error(err))
		}
		repo = gormRepo
	}

	// Validation failures are already logged by the service.
	service := book.NewService(repo, zap.NewNop())

	inserted, skipped := seed(ctx, service, *count, time.Now().Year(), rand.New(rand.NewSource(time.Now().UnixNano())))
	log.Info("seeding finished", zap.Int("inserted", inserted), zap.Int("skipped", skipped))
}

// seed adds count generated books through the service. Titles that already
// exist are skipped; any other failure, validation included, stops the run.
func seed(ctx context.Context, service *book.Service, count, currentYear int, rnd *rand.Rand) (inserted, skipped int) {
	for i := 0; i < count; i++ {
		title := fmt.Sprintf("Book %d %s", i+1, words[rnd.Intn(len(words))])
		author := authors[rnd.Intn(len(authors))]
		year := 2001 + rnd.Intn(currentYear-2001+1)
		quantity := 1 + rnd.Intn(20)
		isbn := fmt.Sprintf("978-%08d", i+1)

		_, err := service.Add(ctx, book.Request{
			Title:           &title,
			Author:          &author,
			ISBN:            &isbn,
			Quantity:        &quantity,
			PublicationYear: &year,
		})
		if errors.Is(err, book.ErrAlreadyExists) {
			skipped++
			continue
		}
		if err != nil {
			return inserted, skipped
		}
		inserted++
	}
	return inserted, skipped
}
