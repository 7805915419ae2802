package book

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGormRepo(t *testing.T) *GormRepo {
	t.Helper()
	repo := NewGormRepo(testutil.NewSQLiteDB(t), time.Second)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func mustSave(t *testing.T, repo Repository, b Book) Book {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), &b))
	return b
}

func TestGormRepo_SaveAndFind(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()

	saved := mustSave(t, repo, Book{Title: "Dune", Author: "Frank Herbert", PublicationYear: 2005, ISBN: testutil.Ptr("978-0441013593")})
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "978-0441013593", *got.ISBN)
	assert.Nil(t, got.Quantity)

	got, err = repo.FindByTitle(ctx, "dUNE")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	_, err = repo.FindByID(ctx, saved.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByTitle(ctx, "Emma")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormRepo_TitleUniqueIgnoresCase(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()

	mustSave(t, repo, Book{Title: "Dune", Author: "Frank Herbert", PublicationYear: 2005})

	dup := Book{Title: "DUNE", Author: "Someone", PublicationYear: 2006}
	assert.ErrorIs(t, repo.Save(ctx, &dup), ErrDuplicateTitle)

	other := mustSave(t, repo, Book{Title: "Emma", Author: "Jane Austen", PublicationYear: 2010})
	other.Title = "dune"
	assert.ErrorIs(t, repo.Save(ctx, &other), ErrDuplicateTitle)
}

func TestGormRepo_Update(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()

	b := mustSave(t, repo, Book{Title: "Dune", Author: "Frank Herbert", PublicationYear: 2005, Quantity: testutil.Ptr(1)})
	b.Quantity = testutil.Ptr(9)
	b.ISBN = nil
	require.NoError(t, repo.Save(ctx, &b))

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, *got.Quantity)

	missing := Book{ID: 999, Title: "Ghost", Author: "Nobody", PublicationYear: 2005}
	assert.ErrorIs(t, repo.Save(ctx, &missing), ErrNotFound)
}

func TestGormRepo_PublicationYear(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()

	mustSave(t, repo, Book{Title: "Dune", Author: "Frank Herbert", PublicationYear: 2005})
	mustSave(t, repo, Book{Title: "Emma", Author: "Jane Austen", PublicationYear: 2005})
	mustSave(t, repo, Book{Title: "Ulysses", Author: "James Joyce", PublicationYear: 2010})

	exists, err := repo.ExistsByPublicationYear(ctx, 2005)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByPublicationYear(ctx, 2022)
	require.NoError(t, err)
	assert.False(t, exists)

	books, err := repo.FindAllByPublicationYear(ctx, 2005)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestGormRepo_SearchBySubstring(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()

	mustSave(t, repo, Book{Title: "Dune", Author: "Frank Herbert", PublicationYear: 2005, ISBN: testutil.Ptr("ISBN-ABC")})
	mustSave(t, repo, Book{Title: "Emma", Author: "Jane Austen", PublicationYear: 2010})

	tests := []struct {
		query string
		want  int
	}{
		{"herb", 1},
		{"UN", 1},
		{"isbn-abc", 1},
		{"a", 2},
		{"%", 0},
		{"_", 0},
		{"zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			books, err := repo.SearchBySubstring(ctx, tt.query, tt.query, tt.query)
			require.NoError(t, err)
			assert.Len(t, books, tt.want)
		})
	}

	all, err := repo.SearchBySubstring(ctx, "", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGormRepo_FindPage(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()

	for _, title := range []string{"Alpha", "Bravo", "Charlie"} {
		mustSave(t, repo, Book{Title: title, Author: "Author", PublicationYear: 2005})
	}

	page, err := repo.FindPage(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.NumberOfElements)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, "Alpha", page.Items[0].Title)

	page, err = repo.FindPage(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, page.NumberOfElements)
	assert.Equal(t, "Charlie", page.Items[0].Title)

	page, err = repo.FindPage(ctx, 5, 2)
	require.NoError(t, err)
	assert.Zero(t, page.NumberOfElements)

	listed, err := NewService(repo, zap.NewNop()).List(ctx, 1<<62, 4)
	require.NoError(t, err)
	assert.Empty(t, listed.Contents)
}

func TestGormRepo_DeleteByID(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()

	b := mustSave(t, repo, Book{Title: "Dune", Author: "Frank Herbert", PublicationYear: 2005})
	require.NoError(t, repo.DeleteByID(ctx, b.ID))
	require.NoError(t, repo.DeleteByID(ctx, b.ID))

	_, err := repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, repo.Ping(ctx))
}

func TestCatalogScenario(t *testing.T) {
	repo := newGormRepo(t)
	service := NewService(repo, zap.NewNop())
	ctx := context.Background()

	dune, err := service.Add(ctx, Request{
		Title:           testutil.Ptr("Dune"),
		Author:          testutil.Ptr("Frank Herbert"),
		PublicationYear: testutil.Ptr(2001),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), dune.ID)

	_, err = service.Add(ctx, Request{
		Title:           testutil.Ptr("dune"),
		Author:          testutil.Ptr("Another Author"),
		PublicationYear: testutil.Ptr(2006),
	})
	assert.ErrorIs(t, err, ErrBookCreation)
	assert.Contains(t, err.Error(), "already exists")

	_, err = service.Update(ctx, dune.ID, Request{PublicationYear: testutil.Ptr(1999)})
	assert.ErrorIs(t, err, ErrInvalidPublicationYear)

	got, err := service.GetByID(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, dune, got)

	page, err := service.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.PageElementCount)
	assert.Equal(t, []Response{dune}, page.Contents)
}

func TestCatalogSearch(t *testing.T) {
	repo := newGormRepo(t)
	service := NewService(repo, zap.NewNop())
	ctx := context.Background()

	for _, req := range []Request{
		{Title: testutil.Ptr("Space Odyssey 2022"), Author: testutil.Ptr("Arthur Clarke"), PublicationYear: testutil.Ptr(2005)},
		{Title: testutil.Ptr("The Hobbit"), Author: testutil.Ptr("J R R Tolkien"), PublicationYear: testutil.Ptr(2012)},
	} {
		_, err := service.Add(ctx, req)
		require.NoError(t, err)
	}

	_, err := service.Search(ctx, "2022")
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := service.Search(ctx, "Tolkien")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "The Hobbit", found[0].Title)

	found, err = service.Search(ctx, "2012")
	require.NoError(t, err)
	require.Len(t, found, 1)

	updated, err := service.Update(ctx, found[0].ID, Request{Title: testutil.Ptr("THE HOBBIT"), Quantity: testutil.Ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, "THE HOBBIT", updated.Title)
	assert.Equal(t, 4, *updated.Quantity)

	require.NoError(t, service.Delete(ctx, updated.ID))
	require.NoError(t, service.Delete(ctx, updated.ID))
	_, err = service.GetByID(ctx, updated.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
