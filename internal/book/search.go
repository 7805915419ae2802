package book

import (
	"context"
	"regexp"
	"strconv"
)

var yearRX = regexp.MustCompile(`^[0-9]{4}$`)

// parseYear reports whether q is a four-digit calendar year.
func parseYear(q string) (int, bool) {
	if !yearRX.MatchString(q) {
		return 0, false
	}
	y, err := strconv.Atoi(q)
	if err != nil {
		return 0, false
	}
	return y, true
}

// resolveSearch turns one free-text query into a result set.
//
// A query that parses as a year is answered only by books published that
// year; when none exist the result is NotFound and no substring search is
// attempted. Any other query is matched case-insensitively as a substring of
// title, author or isbn.
func resolveSearch(ctx context.Context, repo Repository, q string) ([]Book, error) {
	notFound := &Error{Kind: KindNotFound, Message: "Book with search text " + q + " does not exist"}

	var (
		books []Book
		err   error
	)
	if year, ok := parseYear(q); ok {
		var exists bool
		exists, err = repo.ExistsByPublicationYear(ctx, year)
		if err != nil {
			return nil, internalError("checking publication year", err)
		}
		if !exists {
			return nil, notFound
		}
		books, err = repo.FindAllByPublicationYear(ctx, year)
		if err != nil {
			return nil, internalError("searching by publication year", err)
		}
	} else {
		books, err = repo.SearchBySubstring(ctx, q, q, q)
		if err != nil {
			return nil, internalError("searching books", err)
		}
	}

	if len(books) == 0 {
		return nil, notFound
	}
	return books, nil
}
