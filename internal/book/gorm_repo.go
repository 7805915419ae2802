package book

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// bookRecord is the gorm mapping of the books table.
type bookRecord struct {
	ID              int64   `gorm:"primaryKey;autoIncrement"`
	Title           string  `gorm:"size:50;not null"`
	Author          string  `gorm:"size:50;not null"`
	ISBN            *string `gorm:"column:isbn"`
	Quantity        *int
	PublicationYear int `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (bookRecord) TableName() string { return "books" }

func (rec bookRecord) toBook() Book {
	return Book{
		ID:              rec.ID,
		Title:           rec.Title,
		Author:          rec.Author,
		ISBN:            rec.ISBN,
		Quantity:        rec.Quantity,
		PublicationYear: rec.PublicationYear,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

func recordsToBooks(recs []bookRecord) []Book {
	out := make([]Book, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toBook())
	}
	return out
}

// GormRepo is a Repository backed by gorm. It works with both the postgres
// and the sqlite dialectors; the *gorm.DB must be opened with
// TranslateError enabled so unique violations map to gorm.ErrDuplicatedKey.
type GormRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormRepo(db *gorm.DB, timeout time.Duration) *GormRepo {
	return &GormRepo{db: db, timeout: timeout}
}

// Migrate creates the books table and the case-insensitive title index.
func (r *GormRepo) Migrate(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&bookRecord{}); err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_books_title_lower ON books (LOWER(title))`).Error
}

func (r *GormRepo) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(timeoutCtx), cancel
}

func (r *GormRepo) take(ctx context.Context, query string, args ...any) (Book, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var rec bookRecord
	if err := db.Where(query, args...).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return rec.toBook(), nil
}

func (r *GormRepo) FindByTitle(ctx context.Context, title string) (Book, error) {
	return r.take(ctx, "LOWER(title) = LOWER(?)", title)
}

func (r *GormRepo) FindByID(ctx context.Context, id int64) (Book, error) {
	return r.take(ctx, "id = ?", id)
}

func (r *GormRepo) ExistsByPublicationYear(ctx context.Context, year int) (bool, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var count int64
	err := db.Model(&bookRecord{}).Where("publication_year = ?", year).Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) FindAllByPublicationYear(ctx context.Context, year int) ([]Book, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var recs []bookRecord
	if err := db.Where("publication_year = ?", year).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recordsToBooks(recs), nil
}

func (r *GormRepo) SearchBySubstring(ctx context.Context, title, author, isbn string) ([]Book, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	query := db.Model(&bookRecord{})
	matched := false
	for _, f := range []struct{ cond, value string }{
		{`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, title},
		{`LOWER(author) LIKE LOWER(?) ESCAPE '\'`, author},
		{`LOWER(isbn) LIKE LOWER(?) ESCAPE '\'`, isbn},
	} {
		if f.value == "" {
			continue
		}
		if matched {
			query = query.Or(f.cond, likePattern(f.value))
		} else {
			query = query.Where(f.cond, likePattern(f.value))
			matched = true
		}
	}

	var recs []bookRecord
	if err := query.Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recordsToBooks(recs), nil
}

func (r *GormRepo) FindPage(ctx context.Context, pageNumber, pageSize int) (Page, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var recs []bookRecord
	if err := db.Order("id").Limit(pageSize).Offset(pageNumber * pageSize).Find(&recs).Error; err != nil {
		return Page{}, err
	}
	return Page{Items: recordsToBooks(recs), NumberOfElements: len(recs), Size: pageSize}, nil
}

func (r *GormRepo) Save(ctx context.Context, b *Book) error {
	db, cancel := r.session(ctx)
	defer cancel()

	if b.ID == 0 {
		rec := bookRecord{
			Title:           b.Title,
			Author:          b.Author,
			ISBN:            b.ISBN,
			Quantity:        b.Quantity,
			PublicationYear: b.PublicationYear,
		}
		if err := db.Create(&rec).Error; err != nil {
			return translateGormError(err)
		}
		b.ID, b.CreatedAt, b.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
		return nil
	}

	now := time.Now()
	res := db.Model(&bookRecord{}).Where("id = ?", b.ID).Updates(map[string]any{
		"title":            b.Title,
		"author":           b.Author,
		"isbn":             b.ISBN,
		"quantity":         b.Quantity,
		"publication_year": b.PublicationYear,
		"updated_at":       now,
	})
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	b.UpdatedAt = now
	return nil
}

func (r *GormRepo) DeleteByID(ctx context.Context, id int64) error {
	db, cancel := r.session(ctx)
	defer cancel()
	return db.Delete(&bookRecord{}, id).Error
}

// Ping reports whether the underlying connection pool can reach the database.
func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return sqlDB.PingContext(timeoutCtx)
}

func translateGormError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateTitle
	}
	return err
}
