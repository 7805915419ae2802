package book

import (
	"context"
	"os"
	"testing"
	"time"

	"bookcatalog/internal/platform/database"
	"bookcatalog/internal/testutil"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePattern(t *testing.T) {
	tests := map[string]string{
		"dune":    "%dune%",
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for in, want := range tests {
		assert.Equal(t, want, likePattern(in), in)
	}
}

// newPostgresRepo runs against the database named by TEST_DB_DSN after
// applying the goose migrations and emptying the books table.
func newPostgresRepo(t *testing.T) *PostgresRepo {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()

	pool, err := database.OpenPool(ctx, dsn, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := stdlib.OpenDBFromPool(pool)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.UpContext(ctx, db, "../../db/migrations"))

	_, err = pool.Exec(ctx, `TRUNCATE books RESTART IDENTITY`)
	require.NoError(t, err)

	return NewPostgresRepo(pool, 2*time.Second)
}

func TestPostgresRepo_Lifecycle(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()

	dune := mustSave(t, repo, Book{Title: "Dune", Author: "Frank Herbert", PublicationYear: 2005, ISBN: testutil.Ptr("978-0441013593")})
	assert.Equal(t, int64(1), dune.ID)

	dup := Book{Title: "DUNE", Author: "Someone", PublicationYear: 2006}
	assert.ErrorIs(t, repo.Save(ctx, &dup), ErrDuplicateTitle)

	got, err := repo.FindByTitle(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, dune.ID, got.ID)

	exists, err := repo.ExistsByPublicationYear(ctx, 2005)
	require.NoError(t, err)
	assert.True(t, exists)

	books, err := repo.SearchBySubstring(ctx, "HERB", "HERB", "HERB")
	require.NoError(t, err)
	assert.Len(t, books, 1)

	books, err = repo.SearchBySubstring(ctx, "%", "%", "%")
	require.NoError(t, err)
	assert.Empty(t, books)

	dune.Quantity = testutil.Ptr(5)
	require.NoError(t, repo.Save(ctx, &dune))

	page, err := repo.FindPage(ctx, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.NumberOfElements)
	assert.Equal(t, 5, *page.Items[0].Quantity)

	missing := Book{ID: 404, Title: "Ghost", Author: "Nobody", PublicationYear: 2005}
	assert.ErrorIs(t, repo.Save(ctx, &missing), ErrNotFound)

	require.NoError(t, repo.DeleteByID(ctx, dune.ID))
	require.NoError(t, repo.DeleteByID(ctx, dune.ID))
	_, err = repo.FindByID(ctx, dune.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, repo.Ping(ctx))
}
