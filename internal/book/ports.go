package book

import (
	"context"
)

//go:generate mockgen -destination=mock_repository.go -package=book bookcatalog/internal/book Repository

// Repository defines the contract for book data storage.
//
// FindByTitle and FindByID return ErrNotFound when no row matches. Save
// inserts when b.ID is zero and updates otherwise, writing the generated id
// and timestamps back into b; it returns ErrDuplicateTitle on a title
// uniqueness violation. DeleteByID is a no-op for unknown ids.
type Repository interface {
	FindByTitle(ctx context.Context, title string) (Book, error)
	ExistsByPublicationYear(ctx context.Context, year int) (bool, error)
	FindAllByPublicationYear(ctx context.Context, year int) ([]Book, error)
	SearchBySubstring(ctx context.Context, title, author, isbn string) ([]Book, error)
	FindByID(ctx context.Context, id int64) (Book, error)
	FindPage(ctx context.Context, pageNumber, pageSize int) (Page, error)
	Save(ctx context.Context, b *Book) error
	DeleteByID(ctx context.Context, id int64) error
}
