package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const bookColumns = `id, title, author, isbn, quantity, publication_year, created_at, updated_at`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Quantity, &b.PublicationYear, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *PostgresRepo) queryBooks(ctx context.Context, sql string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) queryBook(ctx context.Context, sql string, args ...any) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) FindByTitle(ctx context.Context, title string) (Book, error) {
	return r.queryBook(ctx, `SELECT `+bookColumns+` FROM books WHERE LOWER(title) = LOWER($1) LIMIT 1`, title)
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (Book, error) {
	return r.queryBook(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
}

func (r *PostgresRepo) ExistsByPublicationYear(ctx context.Context, year int) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var exists bool
	err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM books WHERE publication_year = $1)`, year).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) FindAllByPublicationYear(ctx context.Context, year int) ([]Book, error) {
	return r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books WHERE publication_year = $1 ORDER BY id`, year)
}

func (r *PostgresRepo) SearchBySubstring(ctx context.Context, title, author, isbn string) ([]Book, error) {
	clauses := []string{}
	args := []any{}
	argn := 1

	for _, f := range []struct{ column, value string }{
		{"title", title},
		{"author", author},
		{"isbn", isbn},
	} {
		if f.value == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", f.column, argn))
		args = append(args, likePattern(f.value))
		argn++
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " OR ")
	}
	return r.queryBooks(ctx, fmt.Sprintf(`SELECT %s FROM books %s ORDER BY id`, bookColumns, where), args...)
}

func (r *PostgresRepo) FindPage(ctx context.Context, pageNumber, pageSize int) (Page, error) {
	books, err := r.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY id LIMIT $1 OFFSET $2`,
		pageSize, pageNumber*pageSize,
	)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: books, NumberOfElements: len(books), Size: pageSize}, nil
}

func (r *PostgresRepo) Save(ctx context.Context, b *Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var err error
	if b.ID == 0 {
		const sql = `
			INSERT INTO books (title, author, isbn, quantity, publication_year, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING id, created_at, updated_at`
		err = r.db.QueryRow(timeoutCtx, sql,
			b.Title, b.Author, b.ISBN, b.Quantity, b.PublicationYear,
		).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	} else {
		const sql = `
			UPDATE books
			SET title = $2, author = $3, isbn = $4, quantity = $5, publication_year = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`
		err = r.db.QueryRow(timeoutCtx, sql,
			b.ID, b.Title, b.Author, b.ISBN, b.Quantity, b.PublicationYear,
		).Scan(&b.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateTitle
	}
	return err
}

func (r *PostgresRepo) DeleteByID(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	return err
}

// Ping reports whether the pool can reach the database.
func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

// likePattern wraps s for a LIKE/ILIKE substring match, escaping wildcards
// so they match literally. The escape character is a backslash.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
